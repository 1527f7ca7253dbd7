package review

import (
	"encoding/json"
	"testing"
)

func TestParseQuestionsByInterval_StringAndNumericKeys(t *testing.T) {
	raw := json.RawMessage(`{"1": ["Q1"], "7": ["Q2", "  Q3  "]}`)

	q, err := ParseQuestionsByInterval(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := q.For(1); len(got) != 1 || got[0] != "Q1" {
		t.Errorf("Expected [Q1] for interval 1, got %v", got)
	}
	if got := q.For(7); len(got) != 2 || got[1] != "Q3" {
		t.Errorf("Expected trimmed [Q2 Q3] for interval 7, got %v", got)
	}
}

func TestParseQuestionsByInterval_NonNumericKey(t *testing.T) {
	raw := json.RawMessage(`{"soon": ["Q1"]}`)

	if _, err := ParseQuestionsByInterval(raw); err == nil {
		t.Error("Expected error for non-numeric interval key")
	}
}

func TestQuestionsFor_AbsentOrMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		days int
	}{
		{"absent interval", `{"1": ["Q1"]}`, 7},
		{"empty list", `{"7": []}`, 7},
		{"blank entries only", `{"7": ["  ", ""]}`, 7},
		{"non-list value", `{"7": {"not": "a list"}}`, 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ParseQuestionsByInterval(json.RawMessage(tc.raw))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := q.For(tc.days); got != nil {
				t.Errorf("Expected nil questions, got %v", got)
			}
		})
	}
}

func TestNormalizeQuestions(t *testing.T) {
	got := NormalizeQuestions([]string{" a ", "", "b", "   "})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Expected [a b], got %v", got)
	}
}
