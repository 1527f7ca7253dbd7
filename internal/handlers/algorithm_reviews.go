package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studylight-backend/internal/middleware"
	"studylight-backend/internal/models"
	"studylight-backend/internal/repository"
	"studylight-backend/internal/review"
)

// AlgorithmReviewStore mirrors ReviewStore for the algorithm track.
// *repository.AlgorithmReviewRepo satisfies it.
type AlgorithmReviewStore interface {
	ListScheduled(ctx context.Context, userID uuid.UUID) ([]models.AlgorithmReviewItemView, error)
	GetDetail(ctx context.Context, id int64, userID uuid.UUID) (*models.AlgorithmReviewDetail, error)
	Complete(ctx context.Context, id int64, userID uuid.UUID, answers json.RawMessage) (*models.AlgorithmReviewAttempt, error)
	Reschedule(ctx context.Context, id int64, userID uuid.UUID, dueDate models.Date) (*models.AlgorithmReviewItem, error)
	AttachFeedback(ctx context.Context, itemID int64, userID uuid.UUID, checkJSON json.RawMessage, rating, score int, verdict string) (*models.AlgorithmReviewAttempt, error)
	Stats(ctx context.Context, userID uuid.UUID) ([]models.AlgorithmReviewStats, error)
}

type AlgorithmReviewHandler struct {
	reviewRepo AlgorithmReviewStore
}

func NewAlgorithmReviewHandler(reviewRepo AlgorithmReviewStore) *AlgorithmReviewHandler {
	return &AlgorithmReviewHandler{reviewRepo: reviewRepo}
}

// Today returns the schedule-ahead view: planned occurrences due today or
// later.
func (h *AlgorithmReviewHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	items, err := h.reviewRepo.ListScheduled(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list algorithm reviews"))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AlgorithmReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	detail, err := h.reviewRepo.GetDetail(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Algorithm review item not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load algorithm review"))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *AlgorithmReviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req models.CompleteReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}

	attempt, err := h.reviewRepo.Complete(r.Context(), id, userID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Algorithm review item not found"))
		case errors.Is(err, repository.ErrAlreadyCompleted):
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Algorithm review item is already completed"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to complete algorithm review"))
		}
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (h *AlgorithmReviewHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req models.RescheduleReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	if req.DueDate.IsZero() {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "due_date is required"))
		return
	}
	if req.DueDate.Before(models.Today()) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "due_date cannot be in the past"))
		return
	}

	item, err := h.reviewRepo.Reschedule(r.Context(), id, userID, req.DueDate)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Algorithm review item not found"))
		case errors.Is(err, repository.ErrAlreadyCompleted):
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Completed review items cannot be rescheduled"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to reschedule algorithm review"))
		}
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *AlgorithmReviewHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req struct {
		GPTCheckResult json.RawMessage `json:"gpt_check_result"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.GPTCheckResult) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "gpt_check_result is required"))
		return
	}

	var result models.GPTReviewResult
	if err := json.Unmarshal(req.GPTCheckResult, &result); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid gpt_check_result"))
		return
	}

	ratings := make([]int, 0, len(result.Items))
	for _, item := range result.Items {
		ratings = append(ratings, item.Rating1To5)
	}
	grade := review.DeriveGrade(ratings)

	attempt, err := h.reviewRepo.AttachFeedback(r.Context(), id, userID,
		req.GPTCheckResult, grade.Rating1To5, grade.Score0To100, grade.Verdict)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Algorithm review item not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store feedback"))
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (h *AlgorithmReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.reviewRepo.Stats(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
