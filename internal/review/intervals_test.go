package review

import (
	"encoding/json"
	"testing"
)

func TestResolveIntervals_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"nil", ""},
		{"null", "null"},
		{"empty array", "[]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			intervals, err := ResolveIntervals(json.RawMessage(tc.raw))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			want := DefaultIntervals()
			if len(intervals) != len(want) {
				t.Fatalf("Expected default intervals, got %v", intervals)
			}
			for i := range want {
				if intervals[i] != want[i] {
					t.Errorf("Position %d: expected %d, got %d", i, want[i], intervals[i])
				}
			}
		})
	}
}

func TestResolveIntervals_Configured(t *testing.T) {
	intervals, err := ResolveIntervals(json.RawMessage(`[2, 5, 10]`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(intervals) != 3 || intervals[0] != 2 || intervals[2] != 10 {
		t.Errorf("Expected [2 5 10], got %v", intervals)
	}
}

func TestParseIntervals_CoercesStrings(t *testing.T) {
	intervals, err := ParseIntervals(json.RawMessage(`["3", "14"]`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(intervals) != 2 || intervals[0] != 3 || intervals[1] != 14 {
		t.Errorf("Expected [3 14], got %v", intervals)
	}
}

func TestParseIntervals_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"non-integer string", `["soon"]`},
		{"zero", `[0]`},
		{"negative", `[-1, 7]`},
		{"fractional", `[1.5]`},
		{"not an array", `{"days": 1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseIntervals(json.RawMessage(tc.raw)); err == nil {
				t.Errorf("Expected error for %s", tc.raw)
			}
		})
	}
}
