package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studylight-backend/internal/middleware"
	"studylight-backend/internal/models"
	"studylight-backend/internal/review"
)

// PartStore is the persistence surface the part endpoints need.
// *repository.PartRepo satisfies it.
type PartStore interface {
	NextPartIndex(ctx context.Context, bookID int64, userID uuid.UUID) (int, error)
	LastPageEnd(ctx context.Context, bookID int64, userID uuid.UUID) (int, error)
	Create(ctx context.Context, p *models.ReadingPart) error
	GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.ReadingPart, error)
	ListByBook(ctx context.Context, bookID int64, userID uuid.UUID) ([]*models.ReadingPart, error)
	ImportGPT(ctx context.Context, p *models.ReadingPart, summary string, questions json.RawMessage, occurrences []review.Occurrence) ([]models.ReviewItem, error)
}

// SettingsStore provides the lazily created per-user settings row.
// *repository.UserRepo satisfies it.
type SettingsStore interface {
	GetOrCreateSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
}

type PartHandler struct {
	partRepo PartStore
	bookRepo BookStore
	userRepo SettingsStore
}

func NewPartHandler(partRepo PartStore, bookRepo BookStore, userRepo SettingsStore) *PartHandler {
	return &PartHandler{partRepo: partRepo, bookRepo: bookRepo, userRepo: userRepo}
}

func (h *PartHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreatePartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}

	if _, err := h.bookRepo.GetForUser(r.Context(), req.BookID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Book not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load book"))
		return
	}

	partIndex := 0
	if req.PartIndex != nil {
		partIndex = *req.PartIndex
	}
	if partIndex <= 0 {
		next, err := h.partRepo.NextPartIndex(r.Context(), req.BookID, userID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create part"))
			return
		}
		partIndex = next
	}

	pagesRead := req.PagesRead
	if req.PageEnd != nil {
		last, err := h.partRepo.LastPageEnd(r.Context(), req.BookID, userID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create part"))
			return
		}
		if *req.PageEnd < last {
			writeJSON(w, http.StatusUnprocessableEntity,
				errorResp("PAGE_END_INVALID", "page_end is before the last recorded page"))
			return
		}
		computed := *req.PageEnd - last
		pagesRead = &computed
	}

	part := &models.ReadingPart{
		UserID:         userID,
		BookID:         req.BookID,
		PartIndex:      partIndex,
		Label:          req.Label,
		RawNotes:       req.RawNotes,
		PagesRead:      pagesRead,
		SessionSeconds: req.SessionSeconds,
		PageEnd:        req.PageEnd,
	}

	if err := h.partRepo.Create(r.Context(), part); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create part"))
		return
	}

	writeJSON(w, http.StatusCreated, part)
}

// List returns the parts of one book, selected by the book_id query
// parameter.
func (h *PartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	raw := r.URL.Query().Get("book_id")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("BAD_REQUEST", "book_id is required"))
		return
	}
	bookID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || bookID <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid book_id"))
		return
	}

	if _, err := h.bookRepo.GetForUser(r.Context(), bookID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Book not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load book"))
		return
	}

	parts, err := h.partRepo.ListByBook(r.Context(), bookID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list parts"))
		return
	}

	writeJSON(w, http.StatusOK, parts)
}

func (h *PartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	part, err := h.partRepo.GetForUser(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Reading part not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load part"))
		return
	}

	writeJSON(w, http.StatusOK, part)
}

// ImportGPT attaches a summary and per-interval questions to a part and
// rebuilds its review schedule. The base date stays the part's created_at,
// so re-imports land on the same due dates.
func (h *PartHandler) ImportGPT(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	part, err := h.partRepo.GetForUser(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Reading part not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load part"))
		return
	}

	var req models.ImportGPTRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("IMPORT_PAYLOAD_INVALID", "Invalid request body"))
		return
	}

	if strings.TrimSpace(req.GPTSummary) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("IMPORT_PAYLOAD_INVALID", "gpt_summary is required"))
		return
	}

	questions, err := review.ParseQuestionsByInterval(req.GPTQuestionsByInterval)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity,
			errorResp("IMPORT_PAYLOAD_INVALID", "gpt_questions_by_interval: "+err.Error()))
		return
	}

	settings, err := h.userRepo.GetOrCreateSettings(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load settings"))
		return
	}
	intervals, err := review.ResolveIntervals(settings.IntervalsDays)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity,
			errorResp("IMPORT_PAYLOAD_INVALID", "Invalid intervals configuration"))
		return
	}

	base := models.DateOf(part.CreatedAt)
	occurrences := review.BuildSchedule(base, intervals, questions)

	items, err := h.partRepo.ImportGPT(r.Context(), part, req.GPTSummary, req.GPTQuestionsByInterval, occurrences)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to import summary"))
		return
	}

	book, err := h.bookRepo.GetForUser(r.Context(), part.BookID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load book"))
		return
	}

	views := make([]models.ReviewItemView, 0, len(items))
	for _, item := range items {
		views = append(views, models.ReviewItemView{
			ID:            item.ID,
			ReadingPartID: item.ReadingPartID,
			IntervalDays:  item.IntervalDays,
			DueDate:       item.DueDate,
			Status:        item.Status,
			BookID:        book.ID,
			BookTitle:     book.Title,
			PartIndex:     part.PartIndex,
			Label:         part.Label,
		})
	}

	writeJSON(w, http.StatusOK, models.ImportGPTResponse{ReadingPart: part, ReviewItems: views})
}
