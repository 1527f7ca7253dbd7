package review

import "studylight-backend/internal/models"

// Occurrence is one generated review occurrence, ready to be persisted.
type Occurrence struct {
	IntervalDays int
	DueDate      models.Date
	Questions    []string
}

// BuildSchedule produces one planned occurrence per interval, in interval
// order, with due date = base date + interval days and a per-interval
// snapshot of the normalized questions (nil when an interval has none).
//
// The caller replaces any previously generated occurrences wholesale:
// re-import with the same base date and intervals is idempotent.
func BuildSchedule(base models.Date, intervals []int, questions QuestionsByInterval) []Occurrence {
	occurrences := make([]Occurrence, 0, len(intervals))
	for _, days := range intervals {
		occurrences = append(occurrences, Occurrence{
			IntervalDays: days,
			DueDate:      base.AddDays(days),
			Questions:    questions.For(days),
		})
	}
	return occurrences
}
