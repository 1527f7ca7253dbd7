package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studylight-backend/internal/models"
	"studylight-backend/internal/repository"
)

// fakeReviewStore satisfies ReviewStore and the dashboard's DailyReviewStore.
type fakeReviewStore struct {
	scheduled []models.ReviewItemView
	dueToday  []models.ReviewItemView
	overdue   []models.ReviewItemView
	progress  models.ReviewProgress

	completeErr   error
	rescheduleErr error

	rescheduleCalled bool
	rescheduledTo    models.Date
}

func (f *fakeReviewStore) ListScheduled(ctx context.Context, userID uuid.UUID) ([]models.ReviewItemView, error) {
	return f.scheduled, nil
}

func (f *fakeReviewStore) ListDueToday(ctx context.Context, userID uuid.UUID) ([]models.ReviewItemView, error) {
	return f.dueToday, nil
}

func (f *fakeReviewStore) ListOverdue(ctx context.Context, userID uuid.UUID) ([]models.ReviewItemView, error) {
	return f.overdue, nil
}

func (f *fakeReviewStore) GetDetail(ctx context.Context, id int64, userID uuid.UUID) (*models.ReviewDetail, error) {
	return &models.ReviewDetail{}, nil
}

func (f *fakeReviewStore) Complete(ctx context.Context, id int64, userID uuid.UUID, answers json.RawMessage) (*models.ReviewAttempt, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return &models.ReviewAttempt{ID: 1, ReviewItemID: id, Answers: answers}, nil
}

func (f *fakeReviewStore) Reschedule(ctx context.Context, id int64, userID uuid.UUID, dueDate models.Date) (*models.ReviewItem, error) {
	f.rescheduleCalled = true
	f.rescheduledTo = dueDate
	if f.rescheduleErr != nil {
		return nil, f.rescheduleErr
	}
	return &models.ReviewItem{ID: id, DueDate: dueDate, Status: models.ReviewStatusPlanned}, nil
}

func (f *fakeReviewStore) AttachFeedback(ctx context.Context, itemID int64, userID uuid.UUID, checkJSON json.RawMessage, rating, score int, verdict string) (*models.ReviewAttempt, error) {
	return &models.ReviewAttempt{ID: 1, ReviewItemID: itemID}, nil
}

func (f *fakeReviewStore) PartStats(ctx context.Context, userID uuid.UUID) ([]models.ReviewPartStats, error) {
	return nil, nil
}

func (f *fakeReviewStore) Progress(ctx context.Context, userID uuid.UUID) (models.ReviewProgress, error) {
	return f.progress, nil
}

func requestWithIDBody(method, id, body string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return resp
}

func TestReviewReschedule_PastDate(t *testing.T) {
	store := &fakeReviewStore{}
	h := NewReviewHandler(store)

	yesterday := models.Today().AddDays(-1)
	body, _ := json.Marshal(models.RescheduleReviewRequest{DueDate: yesterday})

	rr := httptest.NewRecorder()
	h.Reschedule(rr, requestWithIDBody(http.MethodPatch, "7", string(body)))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %q", resp.Code)
	}
	if store.rescheduleCalled {
		t.Error("Expected no store call for a past due date")
	}
}

func TestReviewReschedule_MissingDate(t *testing.T) {
	store := &fakeReviewStore{}
	h := NewReviewHandler(store)

	rr := httptest.NewRecorder()
	h.Reschedule(rr, requestWithIDBody(http.MethodPatch, "7", `{}`))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", rr.Code)
	}
	if store.rescheduleCalled {
		t.Error("Expected no store call without a due date")
	}
}

func TestReviewReschedule_Completed(t *testing.T) {
	store := &fakeReviewStore{rescheduleErr: repository.ErrAlreadyCompleted}
	h := NewReviewHandler(store)

	tomorrow := models.Today().AddDays(1)
	body, _ := json.Marshal(models.RescheduleReviewRequest{DueDate: tomorrow})

	rr := httptest.NewRecorder()
	h.Reschedule(rr, requestWithIDBody(http.MethodPatch, "7", string(body)))

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != "CONFLICT" {
		t.Errorf("Expected code CONFLICT, got %q", resp.Code)
	}
}

func TestReviewReschedule_NotFound(t *testing.T) {
	store := &fakeReviewStore{rescheduleErr: pgx.ErrNoRows}
	h := NewReviewHandler(store)

	tomorrow := models.Today().AddDays(1)
	body, _ := json.Marshal(models.RescheduleReviewRequest{DueDate: tomorrow})

	rr := httptest.NewRecorder()
	h.Reschedule(rr, requestWithIDBody(http.MethodPatch, "7", string(body)))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %q", resp.Code)
	}
}

func TestReviewReschedule_FuturePlanned(t *testing.T) {
	store := &fakeReviewStore{}
	h := NewReviewHandler(store)

	next := models.Today().AddDays(3)
	body, _ := json.Marshal(models.RescheduleReviewRequest{DueDate: next})

	rr := httptest.NewRecorder()
	h.Reschedule(rr, requestWithIDBody(http.MethodPatch, "7", string(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if !store.rescheduledTo.Equal(next) {
		t.Errorf("Expected store to receive %s, got %s", next, store.rescheduledTo)
	}
}

func TestReviewComplete_AlreadyDone(t *testing.T) {
	store := &fakeReviewStore{completeErr: repository.ErrAlreadyCompleted}
	h := NewReviewHandler(store)

	rr := httptest.NewRecorder()
	h.Complete(rr, requestWithIDBody(http.MethodPost, "7", `{"answers": {}}`))

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != "CONFLICT" {
		t.Errorf("Expected code CONFLICT, got %q", resp.Code)
	}
}

func TestReviewComplete_NotFound(t *testing.T) {
	store := &fakeReviewStore{completeErr: pgx.ErrNoRows}
	h := NewReviewHandler(store)

	rr := httptest.NewRecorder()
	h.Complete(rr, requestWithIDBody(http.MethodPost, "7", `{"answers": {}}`))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rr.Code)
	}
}
