package review

import "math"

// Verdicts for a graded attempt.
const (
	VerdictPass    = "PASS"
	VerdictPartial = "PARTIAL"
	VerdictFail    = "FAIL"
)

// Grade is the overall evaluation derived from per-question ratings.
type Grade struct {
	Rating1To5  int
	Score0To100 int
	Verdict     string
}

// DeriveGrade collapses per-question ratings (1-5 each) into one grade:
// rating = round(mean) clamped to [1,5], score = rating scaled to 0-100,
// verdict PASS at 4+, PARTIAL at 3, FAIL below. No ratings at all grade as
// the floor (1, 20, FAIL).
func DeriveGrade(itemRatings []int) Grade {
	if len(itemRatings) == 0 {
		return Grade{Rating1To5: 1, Score0To100: 20, Verdict: VerdictFail}
	}

	sum := 0
	for _, rating := range itemRatings {
		sum += rating
	}
	rating := int(math.Round(float64(sum) / float64(len(itemRatings))))
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}

	return Grade{
		Rating1To5:  rating,
		Score0To100: int(math.Round(float64(rating) / 5 * 100)),
		Verdict:     verdictFor(rating),
	}
}

func verdictFor(rating int) string {
	switch {
	case rating >= 4:
		return VerdictPass
	case rating == 3:
		return VerdictPartial
	default:
		return VerdictFail
	}
}
