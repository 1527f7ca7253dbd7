package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"studylight-backend/internal/models"
)

type fakeActiveBookStore struct {
	books []models.BookProgress
}

func (f *fakeActiveBookStore) ListActiveWithProgress(ctx context.Context, userID uuid.UUID) ([]models.BookProgress, error) {
	return f.books, nil
}

type fakeDailyAlgorithmStore struct {
	dueToday []models.AlgorithmReviewItemView
}

func (f *fakeDailyAlgorithmStore) ListDueToday(ctx context.Context, userID uuid.UUID) ([]models.AlgorithmReviewItemView, error) {
	return f.dueToday, nil
}

// An occurrence that slipped past its due date must show up under overdue,
// never under today's list.
func TestDashboardToday_SeparatesDueAndOverdue(t *testing.T) {
	today := models.Today()
	dueItem := models.ReviewItemView{ID: 1, DueDate: today, Status: models.ReviewStatusPlanned}
	overdueItem := models.ReviewItemView{ID: 2, DueDate: today.AddDays(-2), Status: models.ReviewStatusPlanned}

	reviews := &fakeReviewStore{
		dueToday: []models.ReviewItemView{dueItem},
		overdue:  []models.ReviewItemView{overdueItem},
		progress: models.ReviewProgress{Total: 5, Completed: 3},
	}
	h := NewDashboardHandler(
		&fakeActiveBookStore{books: []models.BookProgress{{ID: 10, Title: "Clean Architecture"}}},
		reviews,
		&fakeDailyAlgorithmStore{},
	)

	rr := httptest.NewRecorder()
	h.Today(rr, httptest.NewRequest(http.MethodGet, "/today", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp models.TodayResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(resp.ReviewItems) != 1 || resp.ReviewItems[0].ID != 1 {
		t.Errorf("Expected only item 1 under review_items, got %+v", resp.ReviewItems)
	}
	if len(resp.OverdueReviewItems) != 1 || resp.OverdueReviewItems[0].ID != 2 {
		t.Errorf("Expected only item 2 under overdue_review_items, got %+v", resp.OverdueReviewItems)
	}
	for _, item := range resp.ReviewItems {
		if item.ID == overdueItem.ID {
			t.Error("Overdue item leaked into today's list")
		}
	}
	if resp.ReviewProgress.Total != 5 || resp.ReviewProgress.Completed != 3 {
		t.Errorf("Expected progress 3/5, got %+v", resp.ReviewProgress)
	}
	if len(resp.ActiveBooks) != 1 || resp.ActiveBooks[0].ID != 10 {
		t.Errorf("Expected one active book, got %+v", resp.ActiveBooks)
	}
}
