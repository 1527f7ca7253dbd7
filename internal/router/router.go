package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studylight-backend/internal/handlers"
	"studylight-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	bookHandler *handlers.BookHandler,
	partHandler *handlers.PartHandler,
	reviewHandler *handlers.ReviewHandler,
	algorithmHandler *handlers.AlgorithmHandler,
	algorithmReviewHandler *handlers.AlgorithmReviewHandler,
	statsHandler *handlers.StatsHandler,
	dashboardHandler *handlers.DashboardHandler,
	userHandler *handlers.UserHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Book Routes ────
		r.Route("/books", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", bookHandler.Create)
			r.Get("/", bookHandler.List)
			r.Get("/{id}", bookHandler.Get)
			r.Patch("/{id}", bookHandler.Update)
		})

		// ──── Reading Part Routes ────
		r.Route("/parts", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", partHandler.Create)
			r.Get("/", partHandler.List)
			r.Get("/{id}", partHandler.Get)
			r.Post("/{id}/import_gpt", partHandler.ImportGPT)
		})

		// ──── Review Routes ────
		r.Route("/reviews", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/today", reviewHandler.Today)
			r.Get("/overdue", reviewHandler.ListOverdue)
			r.Get("/stats", reviewHandler.Stats)
			r.Get("/{id}", reviewHandler.Get)
			r.Post("/{id}/complete", reviewHandler.Complete)
			r.Patch("/{id}", reviewHandler.Reschedule)
			r.Post("/{id}/save_gpt_feedback", reviewHandler.Feedback)
		})

		// ──── Algorithm Routes ────
		r.Route("/algorithms", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/import", algorithmHandler.Import)
			r.Get("/", algorithmHandler.List)
			r.Get("/{id}", algorithmHandler.Get)
		})

		// ──── Algorithm Group Routes ────
		r.Route("/algorithm-groups", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", algorithmHandler.ListGroups)
			r.Post("/", algorithmHandler.CreateGroup)
			r.Get("/{id}", algorithmHandler.GetGroup)
			r.Patch("/{id}", algorithmHandler.UpdateGroup)
		})

		// ──── Algorithm Training Routes ────
		r.Route("/algorithm-trainings", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", algorithmHandler.CreateTraining)
			r.Get("/", algorithmHandler.ListTrainings)
		})

		// ──── Algorithm Review Routes ────
		r.Route("/algorithm-reviews", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/today", algorithmReviewHandler.Today)
			r.Get("/stats", algorithmReviewHandler.Stats)
			r.Get("/{id}", algorithmReviewHandler.Get)
			r.Post("/{id}/complete", algorithmReviewHandler.Complete)
			r.Patch("/{id}", algorithmReviewHandler.Reschedule)
			r.Post("/{id}/save_gpt_feedback", algorithmReviewHandler.Feedback)
		})

		// ──── Stats & Dashboard Routes ────
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/stats", statsHandler.Overview)
			r.Get("/today", dashboardHandler.Today)
		})

		// ──── Profile & Settings Routes ────
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.Me)
			r.Put("/me/password", userHandler.ChangePassword)
			r.Get("/settings", userHandler.GetSettings)
			r.Put("/settings", userHandler.UpdateSettings)
		})
	})

	return r
}
