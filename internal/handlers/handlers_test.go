package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"studylight-backend/internal/models"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]string{"message": "Created"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", ct)
	}

	var result map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["message"] != "Created" {
		t.Errorf("Expected message 'Created', got %q", result["message"])
	}
}

func TestErrorRespShape(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusNotFound, errorResp("NOT_FOUND", "Book not found"))

	var result map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result["detail"] != "Book not found" {
		t.Errorf("Expected detail 'Book not found', got %v", result["detail"])
	}
	if result["code"] != "NOT_FOUND" {
		t.Errorf("Expected code 'NOT_FOUND', got %v", result["code"])
	}
	if len(result) != 2 {
		t.Errorf("Expected exactly detail and code keys, got %v", result)
	}
}

func TestFieldErrorsDetail(t *testing.T) {
	detail := fieldErrorsDetail(map[string]string{
		"password": "Password must be at least 8 characters",
		"email":    "Invalid email format",
	})

	want := "email: Invalid email format; password: Password must be at least 8 characters"
	if detail != want {
		t.Errorf("Expected %q, got %q", want, detail)
	}
}

func requestWithID(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestIDParam(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantID int64
		wantOK bool
	}{
		{"valid", "42", 42, true},
		{"non-numeric", "abc", 0, false},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
		{"empty", "", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			id, ok := idParam(rr, requestWithID(tc.raw))

			if ok != tc.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tc.wantOK, ok)
			}
			if id != tc.wantID {
				t.Errorf("Expected id %d, got %d", tc.wantID, id)
			}
			if !tc.wantOK && rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("Expected status 422 for invalid id, got %d", rr.Code)
			}
		})
	}
}

// ─── Algorithm Import Validation ───

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func validImportItem() models.AlgorithmImportItem {
	return models.AlgorithmImportItem{
		Title:         "Binary Search",
		Summary:       "Halve the range each step",
		GroupTitleNew: strPtr("Searching"),
		ReviewQuestionsByInterval: json.RawMessage(
			`{"1": ["Q1"], "7": ["Q2"], "16": ["Q3"], "35": ["Q4"], "90": ["Q5"]}`),
	}
}

func TestValidateImport_Valid(t *testing.T) {
	req := &models.AlgorithmImportRequest{
		Groups:     []models.AlgorithmGroupPayload{{Title: "Searching"}},
		Algorithms: []models.AlgorithmImportItem{validImportItem()},
	}

	rows, problem := validateImport(req)
	if problem != "" {
		t.Fatalf("Unexpected validation problem: %s", problem)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if got := rows[0].Questions.For(1); len(got) != 1 {
		t.Errorf("Expected parsed questions for interval 1, got %v", got)
	}
}

func TestValidateImport_Invalid(t *testing.T) {
	bothRefs := validImportItem()
	bothRefs.GroupID = int64Ptr(1)

	noRefs := validImportItem()
	noRefs.GroupTitleNew = nil

	noTitle := validImportItem()
	noTitle.Title = "   "

	badQuestions := validImportItem()
	badQuestions.ReviewQuestionsByInterval = json.RawMessage(`{"soon": ["Q"]}`)

	missingInterval := validImportItem()
	missingInterval.ReviewQuestionsByInterval = json.RawMessage(`{"1": ["Q1"], "7": ["Q2"]}`)

	blankForInterval := validImportItem()
	blankForInterval.ReviewQuestionsByInterval = json.RawMessage(
		`{"1": ["Q1"], "7": ["Q2"], "16": ["Q3"], "35": ["Q4"], "90": ["  "]}`)

	tests := []struct {
		name string
		req  models.AlgorithmImportRequest
	}{
		{"empty batch", models.AlgorithmImportRequest{}},
		{"both group refs", models.AlgorithmImportRequest{Algorithms: []models.AlgorithmImportItem{bothRefs}}},
		{"no group ref", models.AlgorithmImportRequest{Algorithms: []models.AlgorithmImportItem{noRefs}}},
		{"blank title", models.AlgorithmImportRequest{Algorithms: []models.AlgorithmImportItem{noTitle}}},
		{"non-numeric interval key", models.AlgorithmImportRequest{Algorithms: []models.AlgorithmImportItem{badQuestions}}},
		{"missing interval questions", models.AlgorithmImportRequest{Algorithms: []models.AlgorithmImportItem{missingInterval}}},
		{"blank questions for interval", models.AlgorithmImportRequest{Algorithms: []models.AlgorithmImportItem{blankForInterval}}},
		{"blank group title", models.AlgorithmImportRequest{
			Groups:     []models.AlgorithmGroupPayload{{Title: " "}},
			Algorithms: []models.AlgorithmImportItem{validImportItem()},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, problem := validateImport(&tc.req); problem == "" {
				t.Error("Expected a validation problem")
			}
		})
	}
}

func TestValidateImport_SecondItemNamedInProblem(t *testing.T) {
	bad := validImportItem()
	bad.Title = ""

	req := &models.AlgorithmImportRequest{
		Algorithms: []models.AlgorithmImportItem{validImportItem(), bad},
	}

	_, problem := validateImport(req)
	if problem != "algorithms[1]: title is required" {
		t.Errorf("Expected problem to name algorithms[1], got %q", problem)
	}
}
