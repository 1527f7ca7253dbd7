package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"studylight-backend/internal/models"
	"studylight-backend/internal/review"
)

type fakePartStore struct {
	part *models.ReadingPart

	importCalled      bool
	importOccurrences []review.Occurrence
}

func (f *fakePartStore) NextPartIndex(ctx context.Context, bookID int64, userID uuid.UUID) (int, error) {
	return 1, nil
}

func (f *fakePartStore) LastPageEnd(ctx context.Context, bookID int64, userID uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakePartStore) Create(ctx context.Context, p *models.ReadingPart) error {
	p.ID = 1
	p.CreatedAt = time.Now()
	return nil
}

func (f *fakePartStore) GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.ReadingPart, error) {
	return f.part, nil
}

func (f *fakePartStore) ListByBook(ctx context.Context, bookID int64, userID uuid.UUID) ([]*models.ReadingPart, error) {
	return nil, nil
}

func (f *fakePartStore) ImportGPT(ctx context.Context, p *models.ReadingPart, summary string, questions json.RawMessage, occurrences []review.Occurrence) ([]models.ReviewItem, error) {
	f.importCalled = true
	f.importOccurrences = occurrences
	items := make([]models.ReviewItem, 0, len(occurrences))
	for i, occ := range occurrences {
		items = append(items, models.ReviewItem{
			ID:            int64(i + 1),
			ReadingPartID: p.ID,
			IntervalDays:  occ.IntervalDays,
			DueDate:       occ.DueDate,
			Status:        models.ReviewStatusPlanned,
			Questions:     occ.Questions,
		})
	}
	return items, nil
}

type fakeBookStore struct {
	book *models.Book
}

func (f *fakeBookStore) Create(ctx context.Context, b *models.Book) error { return nil }

func (f *fakeBookStore) GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Book, error) {
	return f.book, nil
}

func (f *fakeBookStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Book, error) {
	return nil, nil
}

func (f *fakeBookStore) Update(ctx context.Context, b *models.Book) error { return nil }

type fakeSettingsStore struct {
	intervals json.RawMessage
}

func (f *fakeSettingsStore) GetOrCreateSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	return &models.UserSettings{IntervalsDays: f.intervals}, nil
}

func importHandler(intervals json.RawMessage) (*PartHandler, *fakePartStore) {
	parts := &fakePartStore{
		part: &models.ReadingPart{ID: 5, BookID: 1, PartIndex: 1, CreatedAt: time.Now()},
	}
	books := &fakeBookStore{book: &models.Book{ID: 1, Title: "SICP", Status: "active"}}
	settings := &fakeSettingsStore{intervals: intervals}
	return NewPartHandler(parts, books, settings), parts
}

const importBody = `{
	"gpt_summary": "Streams and lazy evaluation",
	"gpt_questions_by_interval": {"1": ["What is a stream?"], "7": ["Why delay evaluation?"]}
}`

// A corrupt stored intervals configuration must fail the import, not fall
// back to the default ladder.
func TestImportGPT_CorruptIntervalsConfiguration(t *testing.T) {
	h, parts := importHandler(json.RawMessage(`["seven", 7]`))

	rr := httptest.NewRecorder()
	h.ImportGPT(rr, requestWithIDBody(http.MethodPost, "5", importBody))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != "IMPORT_PAYLOAD_INVALID" {
		t.Errorf("Expected code IMPORT_PAYLOAD_INVALID, got %q", resp.Code)
	}
	if parts.importCalled {
		t.Error("Expected no schedule regeneration with a corrupt configuration")
	}
}

func TestImportGPT_ConfiguredIntervals(t *testing.T) {
	h, parts := importHandler(json.RawMessage(`[2, 9]`))

	rr := httptest.NewRecorder()
	h.ImportGPT(rr, requestWithIDBody(http.MethodPost, "5", importBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !parts.importCalled {
		t.Fatal("Expected the schedule to be regenerated")
	}
	if len(parts.importOccurrences) != 2 {
		t.Fatalf("Expected 2 occurrences, got %d", len(parts.importOccurrences))
	}
	if parts.importOccurrences[0].IntervalDays != 2 || parts.importOccurrences[1].IntervalDays != 9 {
		t.Errorf("Expected intervals [2 9], got %+v", parts.importOccurrences)
	}
}

// Numeric-string coercion of the stored configuration still applies.
func TestImportGPT_StringIntervalsCoerced(t *testing.T) {
	h, parts := importHandler(json.RawMessage(`["1", "7"]`))

	rr := httptest.NewRecorder()
	h.ImportGPT(rr, requestWithIDBody(http.MethodPost, "5", importBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(parts.importOccurrences) != 2 {
		t.Fatalf("Expected 2 occurrences, got %d", len(parts.importOccurrences))
	}
}

func TestListParts_RequiresBookID(t *testing.T) {
	h, _ := importHandler(nil)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/parts", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != "BAD_REQUEST" {
		t.Errorf("Expected code BAD_REQUEST, got %q", resp.Code)
	}
}
