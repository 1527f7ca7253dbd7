package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"studylight-backend/internal/middleware"
	"studylight-backend/internal/models"
)

type StatsStore interface {
	Overview(ctx context.Context, userID uuid.UUID) (*models.StatsOverview, error)
}

type StatsHandler struct {
	reviewRepo StatsStore
}

func NewStatsHandler(reviewRepo StatsStore) *StatsHandler {
	return &StatsHandler{reviewRepo: reviewRepo}
}

// Overview returns the combined theory/algorithms rollup.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	overview, err := h.reviewRepo.Overview(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats"))
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
