package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studylight-backend/internal/config"
	"studylight-backend/internal/database"
	"studylight-backend/internal/handlers"
	"studylight-backend/internal/middleware"
	"studylight-backend/internal/repository"
	"studylight-backend/internal/router"
	"studylight-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting StudyLight Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, cfg.MigrationsDir); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	bookRepo := repository.NewBookRepo(pool)
	partRepo := repository.NewPartRepo(pool)
	reviewRepo := repository.NewReviewRepo(pool)
	algorithmRepo := repository.NewAlgorithmRepo(pool)
	algorithmReviewRepo := repository.NewAlgorithmReviewRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret, time.Duration(cfg.AccessTokenMinutes)*time.Minute)
	authService := services.NewAuthService(userRepo, redisClient, jwtAuth, cfg.RefreshTokenDays)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	bookHandler := handlers.NewBookHandler(bookRepo)
	partHandler := handlers.NewPartHandler(partRepo, bookRepo, userRepo)
	reviewHandler := handlers.NewReviewHandler(reviewRepo)
	algorithmHandler := handlers.NewAlgorithmHandler(algorithmRepo)
	algorithmReviewHandler := handlers.NewAlgorithmReviewHandler(algorithmReviewRepo)
	statsHandler := handlers.NewStatsHandler(reviewRepo)
	dashboardHandler := handlers.NewDashboardHandler(bookRepo, reviewRepo, algorithmReviewRepo)
	userHandler := handlers.NewUserHandler(userRepo, authService)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		bookHandler,
		partHandler,
		reviewHandler,
		algorithmHandler,
		algorithmReviewHandler,
		statsHandler,
		dashboardHandler,
		userHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ StudyLight Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
