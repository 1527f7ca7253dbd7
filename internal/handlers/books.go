package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studylight-backend/internal/middleware"
	"studylight-backend/internal/models"
)

var bookStatuses = map[string]bool{
	"active":   true,
	"paused":   true,
	"finished": true,
}

// BookStore is the persistence surface the book endpoints need.
// *repository.BookRepo satisfies it.
type BookStore interface {
	Create(ctx context.Context, b *models.Book) error
	GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Book, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Book, error)
	Update(ctx context.Context, b *models.Book) error
}

type BookHandler struct {
	bookRepo BookStore
}

func NewBookHandler(bookRepo BookStore) *BookHandler {
	return &BookHandler{bookRepo: bookRepo}
}

// idParam parses the numeric {id} path parameter. Writes a validation error
// and returns false when it is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid id"))
		return 0, false
	}
	return id, true
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Title is required"))
		return
	}

	book := &models.Book{
		UserID:     userID,
		Title:      req.Title,
		Author:     req.Author,
		Status:     "active",
		PagesTotal: req.PagesTotal,
	}

	if err := h.bookRepo.Create(r.Context(), book); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create book"))
		return
	}

	writeJSON(w, http.StatusCreated, book)
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	books, err := h.bookRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list books"))
		return
	}

	writeJSON(w, http.StatusOK, books)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	book, err := h.bookRepo.GetForUser(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Book not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load book"))
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req models.UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}

	book, err := h.bookRepo.GetForUser(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Book not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load book"))
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Title cannot be empty"))
			return
		}
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = req.Author
	}
	if req.Status != nil {
		if !bookStatuses[*req.Status] {
			writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", "Invalid status"))
			return
		}
		book.Status = *req.Status
	}
	if req.PagesTotal != nil {
		book.PagesTotal = req.PagesTotal
	}

	if err := h.bookRepo.Update(r.Context(), book); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update book"))
		return
	}

	writeJSON(w, http.StatusOK, book)
}
