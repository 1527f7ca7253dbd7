package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Review occurrence statuses. An occurrence moves planned -> done exactly once.
const (
	ReviewStatusPlanned = "planned"
	ReviewStatusDone    = "done"
)

// ReviewItem is one scheduled review occurrence of a reading part.
type ReviewItem struct {
	ID            int64      `json:"id"`
	UserID        uuid.UUID  `json:"-"`
	ReadingPartID int64      `json:"reading_part_id"`
	IntervalDays  int        `json:"interval_days"`
	DueDate       Date       `json:"due_date"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at"`
	Questions     []string   `json:"questions"`
}

// ReviewItemView is a ReviewItem enriched with its parent book and part,
// the shape list endpoints return.
type ReviewItemView struct {
	ID            int64   `json:"id"`
	ReadingPartID int64   `json:"reading_part_id"`
	IntervalDays  int     `json:"interval_days"`
	DueDate       Date    `json:"due_date"`
	Status        string  `json:"status"`
	BookID        int64   `json:"book_id"`
	BookTitle     string  `json:"book_title"`
	PartIndex     int     `json:"part_index"`
	Label         *string `json:"label"`
}

// ReviewDetail adds the part's summary and the occurrence's question
// snapshot plus the latest attached feedback.
type ReviewDetail struct {
	ReviewItemView
	Summary     *string         `json:"summary"`
	RawNotes    json.RawMessage `json:"raw_notes"`
	Questions   []string        `json:"questions"`
	GPTFeedback json.RawMessage `json:"gpt_feedback"`
}

// ReviewAttempt records one submission against an occurrence. Grading fields
// are filled in later when external feedback is attached; the most recently
// created attempt is canonical.
type ReviewAttempt struct {
	ID             int64           `json:"id"`
	UserID         uuid.UUID       `json:"-"`
	ReviewItemID   int64           `json:"review_item_id"`
	Answers        json.RawMessage `json:"answers"`
	GPTCheckJSON   json.RawMessage `json:"gpt_check_json"`
	GPTRating1To5  *int            `json:"gpt_rating_1_to_5"`
	GPTScore0To100 *int            `json:"gpt_score_0_to_100"`
	GPTVerdict     *string         `json:"gpt_verdict"`
	CreatedAt      time.Time       `json:"created_at"`
}

type CompleteReviewRequest struct {
	Answers json.RawMessage `json:"answers"`
}

type RescheduleReviewRequest struct {
	DueDate Date `json:"due_date"`
}

// GPTReviewItem is one graded question inside an externally produced
// grading payload. Only the rating participates in derivation; the rest is
// stored verbatim.
type GPTReviewItem struct {
	Question      string   `json:"question"`
	UserAnswer    string   `json:"user_answer"`
	Rating1To5    int      `json:"rating_1_to_5"`
	IsAnswered    bool     `json:"is_answered"`
	Mistakes      []string `json:"mistakes"`
	ShortFeedback string   `json:"short_feedback"`
	CorrectAnswer string   `json:"correct_answer"`
}

type GPTReviewResult struct {
	Meta    json.RawMessage `json:"meta"`
	Overall json.RawMessage `json:"overall"`
	Items   []GPTReviewItem `json:"items"`
}

type ReviewFeedbackRequest struct {
	GPTCheckResult GPTReviewResult `json:"gpt_check_result"`
}

// ReviewPartStats is the per-part rollup for GET /reviews/stats.
type ReviewPartStats struct {
	ReadingPartID    int64    `json:"reading_part_id"`
	BookID           int64    `json:"book_id"`
	BookTitle        string   `json:"book_title"`
	PartIndex        int      `json:"part_index"`
	Label            *string  `json:"label"`
	Summary          *string  `json:"summary"`
	TotalReviews     int      `json:"total_reviews"`
	CompletedReviews int      `json:"completed_reviews"`
	GPTAttemptsTotal int      `json:"gpt_attempts_total"`
	GPTAverageRating *float64 `json:"gpt_average_rating"`
}

// TrackStats aggregates one review track (reading or algorithms) for the
// requesting user.
type TrackStats struct {
	AverageRating7d  *float64 `json:"average_rating_7d"`
	AverageRating30d *float64 `json:"average_rating_30d"`
	PlannedCount     int      `json:"planned_count"`
	CompletedCount   int      `json:"completed_count"`
}

type StatsOverview struct {
	Theory     TrackStats `json:"theory"`
	Algorithms TrackStats `json:"algorithms"`
}

// ReviewProgress is the overall planned/done counter on the dashboard.
type ReviewProgress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// TodayResponse is the dashboard payload.
type TodayResponse struct {
	ActiveBooks          []BookProgress            `json:"active_books"`
	ReviewItems          []ReviewItemView          `json:"review_items"`
	OverdueReviewItems   []ReviewItemView          `json:"overdue_review_items"`
	AlgorithmReviewItems []AlgorithmReviewItemView `json:"algorithm_review_items"`
	ReviewProgress       ReviewProgress            `json:"review_progress"`
}
