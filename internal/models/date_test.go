package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.March, 5)

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(raw) != `"2026-03-05"` {
		t.Errorf(`Expected "2026-03-05", got %s`, raw)
	}

	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("Round trip changed date: %s vs %s", back, d)
	}
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"next tuesday"`), &d); err == nil {
		t.Error("Expected error for non-date string")
	}
}

func TestDateAddDays(t *testing.T) {
	tests := []struct {
		name string
		base Date
		days int
		want Date
	}{
		{"same month", NewDate(2026, time.March, 1), 7, NewDate(2026, time.March, 8)},
		{"month boundary", NewDate(2026, time.January, 31), 1, NewDate(2026, time.February, 1)},
		{"leap day", NewDate(2028, time.February, 28), 1, NewDate(2028, time.February, 29)},
		{"year boundary", NewDate(2026, time.December, 31), 1, NewDate(2027, time.January, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.base.AddDays(tc.days); !got.Equal(tc.want) {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2026, time.April, 9, 13, 45, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !d.Equal(NewDate(2026, time.April, 9)) {
		t.Errorf("Expected 2026-04-09, got %s", d)
	}

	if err := d.Scan("2026-07-21"); err != nil {
		t.Fatalf("Scan from string failed: %v", err)
	}
	if !d.Equal(NewDate(2026, time.July, 21)) {
		t.Errorf("Expected 2026-07-21, got %s", d)
	}
}

func TestDateOfDropsTimeOfDay(t *testing.T) {
	ts := time.Date(2026, time.May, 14, 23, 59, 59, 0, time.UTC)
	if got := DateOf(ts); !got.Equal(NewDate(2026, time.May, 14)) {
		t.Errorf("Expected 2026-05-14, got %s", got)
	}
}
