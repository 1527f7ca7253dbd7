package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studylight-backend/internal/middleware"
	"studylight-backend/internal/models"
	"studylight-backend/internal/review"
	"studylight-backend/internal/services"
)

// UserStore is the persistence surface the profile and settings endpoints
// need. *repository.UserRepo satisfies it.
type UserStore interface {
	SettingsStore
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastSeen(ctx context.Context, userID uuid.UUID) error
	UpdateSettings(ctx context.Context, s *models.UserSettings) error
}

type UserHandler struct {
	userRepo    UserStore
	authService *services.AuthService
}

func NewUserHandler(userRepo UserStore, authService *services.AuthService) *UserHandler {
	return &UserHandler{userRepo: userRepo, authService: authService}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load user"))
		return
	}

	if err := h.userRepo.UpdateLastSeen(r.Context(), userID); err != nil {
		log.Printf("update last seen for %s: %v", userID, err)
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	settings, err := h.userRepo.GetOrCreateSettings(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load settings"))
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}

	settings, err := h.userRepo.GetOrCreateSettings(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load settings"))
		return
	}

	if req.Timezone != nil {
		settings.Timezone = req.Timezone
	}
	if req.PomodoroWorkMin != nil {
		if *req.PomodoroWorkMin <= 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "pomodoro_work_min must be positive"))
			return
		}
		settings.PomodoroWorkMin = req.PomodoroWorkMin
	}
	if req.PomodoroBreakMin != nil {
		if *req.PomodoroBreakMin <= 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "pomodoro_break_min must be positive"))
			return
		}
		settings.PomodoroBreakMin = req.PomodoroBreakMin
	}
	if req.DailyGoalWeekdayMin != nil {
		settings.DailyGoalWeekdayMin = req.DailyGoalWeekdayMin
	}
	if req.DailyGoalWeekendMin != nil {
		settings.DailyGoalWeekendMin = req.DailyGoalWeekendMin
	}
	if req.IntervalsDays != nil {
		parsed, err := review.ParseIntervals(req.IntervalsDays)
		if err != nil || len(parsed) == 0 {
			writeJSON(w, http.StatusUnprocessableEntity,
				errorResp("VALIDATION_ERROR", "intervals_days must be a non-empty list of positive integers"))
			return
		}
		// Stored canonically as integers even when the client sent strings.
		canonical, _ := json.Marshal(parsed)
		settings.IntervalsDays = canonical
	}

	if err := h.userRepo.UpdateSettings(r.Context(), settings); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update settings"))
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
