package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studylight-backend/internal/middleware"
	"studylight-backend/internal/models"
	"studylight-backend/internal/repository"
	"studylight-backend/internal/review"
)

// AlgorithmStore is the persistence surface the algorithm endpoints need.
// *repository.AlgorithmRepo satisfies it.
type AlgorithmStore interface {
	Import(ctx context.Context, userID uuid.UUID, groups []models.AlgorithmGroupPayload, items []repository.AlgorithmImportRow, intervals []int, base models.Date) (*models.AlgorithmImportResponse, error)
	List(ctx context.Context, userID uuid.UUID, groupID *int64) ([]models.AlgorithmListItem, error)
	GetDetail(ctx context.Context, id int64, userID uuid.UUID) (*models.AlgorithmDetail, error)
	ListGroups(ctx context.Context, userID uuid.UUID) ([]models.AlgorithmGroupView, error)
	GetGroup(ctx context.Context, id int64, userID uuid.UUID) (*models.AlgorithmGroupView, error)
	CreateGroup(ctx context.Context, userID uuid.UUID, req models.CreateGroupRequest) (*models.AlgorithmGroupView, error)
	UpdateGroup(ctx context.Context, id int64, userID uuid.UUID, req models.UpdateGroupRequest) (*models.AlgorithmGroupView, error)
	CreateTraining(ctx context.Context, userID uuid.UUID, req models.CreateTrainingRequest, rating *int) (*models.AlgorithmTrainingAttempt, error)
	ListTrainings(ctx context.Context, userID uuid.UUID, algorithmID int64, limit int) ([]models.AlgorithmTrainingAttempt, error)
}

type AlgorithmHandler struct {
	algorithmRepo AlgorithmStore
}

func NewAlgorithmHandler(algorithmRepo AlgorithmStore) *AlgorithmHandler {
	return &AlgorithmHandler{algorithmRepo: algorithmRepo}
}

// validateImport checks the whole batch before anything is written. The
// error message names the failing algorithm by position.
func validateImport(req *models.AlgorithmImportRequest) ([]repository.AlgorithmImportRow, string) {
	if len(req.Algorithms) == 0 {
		return nil, "algorithms must not be empty"
	}

	for i, g := range req.Groups {
		if strings.TrimSpace(g.Title) == "" {
			return nil, fmt.Sprintf("groups[%d]: title is required", i)
		}
	}

	rows := make([]repository.AlgorithmImportRow, 0, len(req.Algorithms))
	for i, item := range req.Algorithms {
		if strings.TrimSpace(item.Title) == "" {
			return nil, fmt.Sprintf("algorithms[%d]: title is required", i)
		}

		hasID := item.GroupID != nil
		hasTitle := item.GroupTitleNew != nil && strings.TrimSpace(*item.GroupTitleNew) != ""
		if hasID == hasTitle {
			return nil, fmt.Sprintf("algorithms[%d]: exactly one of group_id or group_title_new is required", i)
		}

		questions, err := review.ParseQuestionsByInterval(item.ReviewQuestionsByInterval)
		if err != nil {
			return nil, fmt.Sprintf("algorithms[%d]: review_questions_by_interval: %v", i, err)
		}

		// Unlike part-level import, the bulk bootstrap requires questions
		// for every scheduled interval.
		for _, days := range review.DefaultIntervals() {
			if len(questions.For(days)) == 0 {
				return nil, fmt.Sprintf("algorithms[%d]: no questions for interval %d", i, days)
			}
		}

		rows = append(rows, repository.AlgorithmImportRow{Item: item, Questions: questions})
	}
	return rows, ""
}

func (h *AlgorithmHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.AlgorithmImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("ALGORITHM_IMPORT_INVALID", "Invalid request body"))
		return
	}

	rows, problem := validateImport(&req)
	if problem != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("ALGORITHM_IMPORT_INVALID", problem))
		return
	}

	resp, err := h.algorithmRepo.Import(r.Context(), userID, req.Groups, rows,
		review.DefaultIntervals(), models.Today())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGroupNotFound):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Algorithm group not found"))
		case errors.Is(err, repository.ErrSourcePartNotFound):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Source reading part not found"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to import algorithms"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *AlgorithmHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var groupID *int64
	if raw := r.URL.Query().Get("group_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid group_id"))
			return
		}
		groupID = &id
	}

	items, err := h.algorithmRepo.List(r.Context(), userID, groupID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list algorithms"))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AlgorithmHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	detail, err := h.algorithmRepo.GetDetail(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Algorithm not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load algorithm"))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *AlgorithmHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	groups, err := h.algorithmRepo.ListGroups(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list groups"))
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *AlgorithmHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	group, err := h.algorithmRepo.GetGroup(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Algorithm group not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load group"))
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *AlgorithmHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Title is required"))
		return
	}

	group, err := h.algorithmRepo.CreateGroup(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, repository.ErrGroupExists) {
			writeJSON(w, http.StatusConflict, errorResp("ALGORITHM_GROUP_EXISTS", "Algorithm group already exists"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create group"))
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *AlgorithmHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req models.UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	if req.Title == nil && req.Description == nil && req.Notes == nil {
		writeJSON(w, http.StatusBadRequest, errorResp("BAD_REQUEST", "No fields provided for update"))
		return
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Title cannot be empty"))
			return
		}
		req.Title = &trimmed
	}

	group, err := h.algorithmRepo.UpdateGroup(r.Context(), id, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Algorithm group not found"))
		case errors.Is(err, repository.ErrGroupExists):
			writeJSON(w, http.StatusConflict, errorResp("ALGORITHM_GROUP_EXISTS", "Algorithm group with this title already exists"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update group"))
		}
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// CreateTraining records a freestanding practice run. When a grading payload
// is supplied, the overall rating is lifted onto the attempt row.
func (h *AlgorithmHandler) CreateTraining(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	if req.AlgorithmID <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "algorithm_id is required"))
		return
	}

	var rating *int
	if len(req.GPTCheckResult) > 0 {
		var check struct {
			Overall struct {
				Rating1To5 *int `json:"rating_1_to_5"`
			} `json:"overall"`
		}
		if err := json.Unmarshal(req.GPTCheckResult, &check); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid gpt_check_result"))
			return
		}
		rating = check.Overall.Rating1To5
	}

	attempt, err := h.algorithmRepo.CreateTraining(r.Context(), userID, req, rating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Algorithm not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record training"))
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}

func (h *AlgorithmHandler) ListTrainings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	raw := r.URL.Query().Get("algorithm_id")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("BAD_REQUEST", "algorithm_id is required"))
		return
	}
	algorithmID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || algorithmID <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid algorithm_id"))
		return
	}

	limit := 50
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n < 1 || n > 200 {
			writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "limit must be between 1 and 200"))
			return
		}
		limit = n
	}

	attempts, err := h.algorithmRepo.ListTrainings(r.Context(), userID, algorithmID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list trainings"))
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}
