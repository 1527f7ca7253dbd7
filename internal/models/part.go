package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReadingPart is one study unit within a book. Its created_at is the base
// date for review scheduling and never changes on re-import.
type ReadingPart struct {
	ID                     int64           `json:"id"`
	UserID                 uuid.UUID       `json:"-"`
	BookID                 int64           `json:"book_id"`
	PartIndex              int             `json:"part_index"`
	Label                  *string         `json:"label"`
	CreatedAt              time.Time       `json:"created_at"`
	RawNotes               json.RawMessage `json:"raw_notes"`
	GPTSummary             *string         `json:"gpt_summary"`
	GPTQuestionsByInterval json.RawMessage `json:"gpt_questions_by_interval"`
	PagesRead              *int            `json:"pages_read"`
	SessionSeconds         *int            `json:"session_seconds"`
	PageEnd                *int            `json:"page_end"`
}

type CreatePartRequest struct {
	BookID         int64           `json:"book_id"`
	PartIndex      *int            `json:"part_index"`
	Label          *string         `json:"label"`
	RawNotes       json.RawMessage `json:"raw_notes"`
	PagesRead      *int            `json:"pages_read"`
	SessionSeconds *int            `json:"session_seconds"`
	PageEnd        *int            `json:"page_end"`
}

type ImportGPTRequest struct {
	GPTSummary             string          `json:"gpt_summary"`
	GPTQuestionsByInterval json.RawMessage `json:"gpt_questions_by_interval"`
}

type ImportGPTResponse struct {
	ReadingPart *ReadingPart     `json:"reading_part"`
	ReviewItems []ReviewItemView `json:"review_items"`
}
