package review

import (
	"testing"
	"time"

	"studylight-backend/internal/models"
)

func TestBuildSchedule_DefaultIntervals(t *testing.T) {
	base := models.NewDate(2026, time.March, 1)
	questions := QuestionsByInterval{
		1:  {"Q1"},
		7:  {"Q2"},
		16: {"Q3"},
		35: {"Q4"},
		90: {"Q5"},
	}

	occurrences := BuildSchedule(base, DefaultIntervals(), questions)

	if len(occurrences) != 5 {
		t.Fatalf("Expected 5 occurrences, got %d", len(occurrences))
	}

	expected := []struct {
		interval int
		due      models.Date
		question string
	}{
		{1, models.NewDate(2026, time.March, 2), "Q1"},
		{7, models.NewDate(2026, time.March, 8), "Q2"},
		{16, models.NewDate(2026, time.March, 17), "Q3"},
		{35, models.NewDate(2026, time.April, 5), "Q4"},
		{90, models.NewDate(2026, time.May, 30), "Q5"},
	}

	for i, want := range expected {
		got := occurrences[i]
		if got.IntervalDays != want.interval {
			t.Errorf("Occurrence %d: expected interval %d, got %d", i, want.interval, got.IntervalDays)
		}
		if !got.DueDate.Equal(want.due) {
			t.Errorf("Interval %d: expected due date %s, got %s", want.interval, want.due, got.DueDate)
		}
		if len(got.Questions) != 1 || got.Questions[0] != want.question {
			t.Errorf("Interval %d: expected questions [%s], got %v", want.interval, want.question, got.Questions)
		}
	}
}

func TestBuildSchedule_MissingQuestionsYieldNil(t *testing.T) {
	base := models.NewDate(2026, time.January, 10)
	questions := QuestionsByInterval{7: {"only this one"}}

	occurrences := BuildSchedule(base, []int{1, 7}, questions)

	if occurrences[0].Questions != nil {
		t.Errorf("Expected nil questions for interval 1, got %v", occurrences[0].Questions)
	}
	if len(occurrences[1].Questions) != 1 {
		t.Errorf("Expected 1 question for interval 7, got %v", occurrences[1].Questions)
	}
}

func TestBuildSchedule_DeterministicOnReimport(t *testing.T) {
	base := models.NewDate(2026, time.February, 14)
	questions := QuestionsByInterval{1: {"Q1"}, 7: {"Q2"}}

	first := BuildSchedule(base, []int{1, 7}, questions)
	second := BuildSchedule(base, []int{1, 7}, questions)

	if len(first) != len(second) {
		t.Fatalf("Schedules differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].DueDate.Equal(second[i].DueDate) {
			t.Errorf("Occurrence %d: due dates differ: %s vs %s", i, first[i].DueDate, second[i].DueDate)
		}
	}
}

func TestBuildSchedule_MonthBoundary(t *testing.T) {
	base := models.NewDate(2026, time.January, 31)
	occurrences := BuildSchedule(base, []int{1}, nil)

	want := models.NewDate(2026, time.February, 1)
	if !occurrences[0].DueDate.Equal(want) {
		t.Errorf("Expected %s, got %s", want, occurrences[0].DueDate)
	}
}
