package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"studylight-backend/internal/middleware"
	"studylight-backend/internal/models"
)

// The dashboard pulls the strict due-today and overdue sets. These stay
// disjoint because both are classified against the same CURRENT_DATE.
type DailyReviewStore interface {
	ListDueToday(ctx context.Context, userID uuid.UUID) ([]models.ReviewItemView, error)
	ListOverdue(ctx context.Context, userID uuid.UUID) ([]models.ReviewItemView, error)
	Progress(ctx context.Context, userID uuid.UUID) (models.ReviewProgress, error)
}

type DailyAlgorithmReviewStore interface {
	ListDueToday(ctx context.Context, userID uuid.UUID) ([]models.AlgorithmReviewItemView, error)
}

type ActiveBookStore interface {
	ListActiveWithProgress(ctx context.Context, userID uuid.UUID) ([]models.BookProgress, error)
}

type DashboardHandler struct {
	bookRepo      ActiveBookStore
	reviewRepo    DailyReviewStore
	algReviewRepo DailyAlgorithmReviewStore
}

func NewDashboardHandler(bookRepo ActiveBookStore, reviewRepo DailyReviewStore, algReviewRepo DailyAlgorithmReviewStore) *DashboardHandler {
	return &DashboardHandler{bookRepo: bookRepo, reviewRepo: reviewRepo, algReviewRepo: algReviewRepo}
}

// Today assembles the daily study view: active books with progress, reviews
// due today, overdue reviews, algorithm reviews due today and the overall
// completion counter.
func (h *DashboardHandler) Today(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	books, err := h.bookRepo.ListActiveWithProgress(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load dashboard"))
		return
	}

	reviewItems, err := h.reviewRepo.ListDueToday(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load dashboard"))
		return
	}

	overdue, err := h.reviewRepo.ListOverdue(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load dashboard"))
		return
	}

	algItems, err := h.algReviewRepo.ListDueToday(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load dashboard"))
		return
	}

	progress, err := h.reviewRepo.Progress(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load dashboard"))
		return
	}

	writeJSON(w, http.StatusOK, models.TodayResponse{
		ActiveBooks:          books,
		ReviewItems:          reviewItems,
		OverdueReviewItems:   overdue,
		AlgorithmReviewItems: algItems,
		ReviewProgress:       progress,
	})
}
