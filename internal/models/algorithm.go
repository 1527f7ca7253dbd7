package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AlgorithmGroup clusters algorithms under a display title. TitleNorm is the
// trimmed, lowercased dedup key, unique per user.
type AlgorithmGroup struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	TitleNorm   string    `json:"-"`
	Description *string   `json:"description"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AlgorithmGroupView struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	Notes           *string `json:"notes"`
	AlgorithmsCount int     `json:"algorithms_count"`
}

type Algorithm struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"-"`
	GroupID      int64     `json:"group_id"`
	SourcePartID *int64    `json:"source_part_id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	WhenToUse    string    `json:"when_to_use"`
	Complexity   string    `json:"complexity"`
	Invariants   []string  `json:"invariants"`
	Steps        []string  `json:"steps"`
	CornerCases  []string  `json:"corner_cases"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AlgorithmCodeSnippet struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"-"`
	AlgorithmID int64     `json:"algorithm_id"`
	CodeKind    string    `json:"code_kind"`
	Language    string    `json:"language"`
	CodeText    string    `json:"code_text"`
	IsReference bool      `json:"is_reference"`
	CreatedAt   time.Time `json:"created_at"`
}

type AlgorithmListItem struct {
	ID               int64  `json:"id"`
	GroupID          int64  `json:"group_id"`
	GroupTitle       string `json:"group_title"`
	Title            string `json:"title"`
	Summary          string `json:"summary"`
	Complexity       string `json:"complexity"`
	ReviewItemsCount int    `json:"review_items_count"`
}

type AlgorithmDetail struct {
	ID               int64                  `json:"id"`
	GroupID          int64                  `json:"group_id"`
	GroupTitle       string                 `json:"group_title"`
	Title            string                 `json:"title"`
	Summary          string                 `json:"summary"`
	WhenToUse        string                 `json:"when_to_use"`
	Complexity       string                 `json:"complexity"`
	Invariants       []string               `json:"invariants"`
	Steps            []string               `json:"steps"`
	CornerCases      []string               `json:"corner_cases"`
	SourcePart       *ReadingPart           `json:"source_part"`
	CodeSnippets     []AlgorithmCodeSnippet `json:"code_snippets"`
	ReviewItemsCount int                    `json:"review_items_count"`
}

// AlgorithmReviewItem mirrors ReviewItem for the algorithm track.
type AlgorithmReviewItem struct {
	ID           int64      `json:"id"`
	UserID       uuid.UUID  `json:"-"`
	AlgorithmID  int64      `json:"algorithm_id"`
	IntervalDays int        `json:"interval_days"`
	DueDate      Date       `json:"due_date"`
	Status       string     `json:"status"`
	CompletedAt  *time.Time `json:"completed_at"`
	Questions    []string   `json:"questions"`
}

type AlgorithmReviewItemView struct {
	ID            int64  `json:"id"`
	AlgorithmID   int64  `json:"algorithm_id"`
	IntervalDays  int    `json:"interval_days"`
	DueDate       Date   `json:"due_date"`
	Status        string `json:"status"`
	GroupID       int64  `json:"group_id"`
	GroupTitle    string `json:"group_title"`
	Title         string `json:"title"`
	GPTRating1To5 *int   `json:"gpt_rating_1_to_5,omitempty"`
}

type AlgorithmReviewDetail struct {
	AlgorithmReviewItemView
	Summary     string          `json:"summary"`
	WhenToUse   string          `json:"when_to_use"`
	Complexity  string          `json:"complexity"`
	Invariants  []string        `json:"invariants"`
	Steps       []string        `json:"steps"`
	CornerCases []string        `json:"corner_cases"`
	Questions   []string        `json:"questions"`
	GPTFeedback json.RawMessage `json:"gpt_feedback"`
}

type AlgorithmReviewAttempt struct {
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

// Import payloads.

type AlgorithmGroupPayload struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

type AlgorithmCodePayload struct {
	CodeKind string `json:"code_kind"`
	Language string `json:"language"`
	CodeText string `json:"code_text"`
}

type AlgorithmImportItem struct {
	Title                     string               `json:"title"`
	Summary                   string               `json:"summary"`
	WhenToUse                 string               `json:"when_to_use"`
	Complexity                string               `json:"complexity"`
	Invariants                []string             `json:"invariants"`
	Steps                     []string             `json:"steps"`
	CornerCases               []string             `json:"corner_cases"`
	ReviewQuestionsByInterval json.RawMessage      `json:"review_questions_by_interval"`
	Code                      AlgorithmCodePayload `json:"code"`
	GroupID                   *int64               `json:"group_id"`
	GroupTitleNew             *string              `json:"group_title_new"`
	SourcePartID              *int64               `json:"source_part_id"`
}

type AlgorithmImportRequest struct {
	Groups     []AlgorithmGroupPayload `json:"groups"`
	Algorithms []AlgorithmImportItem   `json:"algorithms"`
}

type AlgorithmImportResult struct {
	AlgorithmID int64 `json:"algorithm_id"`
	GroupID     int64 `json:"group_id"`
}

type AlgorithmImportResponse struct {
	GroupsCreated      int                     `json:"groups_created"`
	AlgorithmsCreated  []AlgorithmImportResult `json:"algorithms_created"`
	ReviewItemsCreated int                     `json:"review_items_created"`
}

type AlgorithmReviewFeedbackRequest struct {
	GPTCheckResult GPTReviewResult `json:"gpt_check_result"`
}

// AlgorithmTrainingAttempt is one freestanding practice run against an
// algorithm, outside the review schedule.
type AlgorithmTrainingAttempt struct {
	ID           int64           `json:"id"`
	UserID       uuid.UUID       `json:"-"`
	AlgorithmID  int64           `json:"algorithm_id"`
	Mode         string          `json:"mode"`
	CodeText     string          `json:"code_text"`
	GPTCheckJSON json.RawMessage `json:"gpt_check_json"`
	Rating1To5   *int            `json:"rating_1_to_5"`
	Accuracy     *float64        `json:"accuracy"`
	DurationSec  *int            `json:"duration_sec"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateTrainingRequest struct {
	AlgorithmID    int64           `json:"algorithm_id"`
	Mode           string          `json:"mode"`
	CodeText       string          `json:"code_text"`
	GPTCheckResult json.RawMessage `json:"gpt_check_result"`
	Accuracy       *float64        `json:"accuracy"`
	DurationSec    *int            `json:"duration_sec"`
}

type CreateGroupRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

type UpdateGroupRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

// AlgorithmReviewStats is the per-algorithm rollup for
// GET /algorithm-reviews/stats.
type AlgorithmReviewStats struct {
	GroupID          int64    `json:"group_id"`
	GroupTitle       string   `json:"group_title"`
	AlgorithmID      int64    `json:"algorithm_id"`
	AlgorithmTitle   string   `json:"algorithm_title"`
	TotalReviews     int      `json:"total_reviews"`
	CompletedReviews int      `json:"completed_reviews"`
	GPTAttemptsTotal int      `json:"gpt_attempts_total"`
	GPTAverageRating *float64 `json:"gpt_average_rating"`
}
