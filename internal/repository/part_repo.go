package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studylight-backend/internal/models"
	"studylight-backend/internal/review"
)

type PartRepo struct {
	pool *pgxpool.Pool
}

func NewPartRepo(pool *pgxpool.Pool) *PartRepo {
	return &PartRepo{pool: pool}
}

// NextPartIndex returns 1 + the highest existing part_index for the book.
func (r *PartRepo) NextPartIndex(ctx context.Context, bookID int64, userID uuid.UUID) (int, error) {
	var max int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(part_index), 0) FROM reading_parts WHERE book_id = $1 AND user_id = $2`,
		bookID, userID,
	).Scan(&max)
	return max + 1, err
}

// LastPageEnd returns the most recent recorded page_end for the book, or 0.
func (r *PartRepo) LastPageEnd(ctx context.Context, bookID int64, userID uuid.UUID) (int, error) {
	var last int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(page_end), 0) FROM reading_parts
		WHERE book_id = $1 AND user_id = $2 AND page_end IS NOT NULL`,
		bookID, userID,
	).Scan(&last)
	return last, err
}

func (r *PartRepo) Create(ctx context.Context, p *models.ReadingPart) error {
	query := `
		INSERT INTO reading_parts (user_id, book_id, part_index, label, raw_notes,
			pages_read, session_seconds, page_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		p.UserID, p.BookID, p.PartIndex, p.Label, p.RawNotes,
		p.PagesRead, p.SessionSeconds, p.PageEnd,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PartRepo) GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.ReadingPart, error) {
	p := &models.ReadingPart{}
	query := `SELECT id, user_id, book_id, part_index, label, created_at, raw_notes,
		gpt_summary, gpt_questions_by_interval, pages_read, session_seconds, page_end
		FROM reading_parts WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&p.ID, &p.UserID, &p.BookID, &p.PartIndex, &p.Label, &p.CreatedAt, &p.RawNotes,
		&p.GPTSummary, &p.GPTQuestionsByInterval, &p.PagesRead, &p.SessionSeconds, &p.PageEnd,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PartRepo) ListByBook(ctx context.Context, bookID int64, userID uuid.UUID) ([]*models.ReadingPart, error) {
	query := `SELECT id, user_id, book_id, part_index, label, created_at, raw_notes,
		gpt_summary, gpt_questions_by_interval, pages_read, session_seconds, page_end
		FROM reading_parts WHERE book_id = $1 AND user_id = $2 ORDER BY part_index`

	rows, err := r.pool.Query(ctx, query, bookID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parts := make([]*models.ReadingPart, 0)
	for rows.Next() {
		p := &models.ReadingPart{}
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.BookID, &p.PartIndex, &p.Label, &p.CreatedAt, &p.RawNotes,
			&p.GPTSummary, &p.GPTQuestionsByInterval, &p.PagesRead, &p.SessionSeconds, &p.PageEnd,
		); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// ImportGPT stores the GPT summary and questions snapshot on the part and
// regenerates its review schedule. Existing schedule items are deleted
// (attempts cascade) and replaced by the given occurrences, all in one
// transaction.
func (r *PartRepo) ImportGPT(ctx context.Context, p *models.ReadingPart, summary string, questions json.RawMessage, occurrences []review.Occurrence) ([]models.ReviewItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE reading_parts SET gpt_summary = $1, gpt_questions_by_interval = $2
		 WHERE id = $3 AND user_id = $4`,
		summary, questions, p.ID, p.UserID,
	)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM review_schedule_items WHERE reading_part_id = $1 AND user_id = $2`,
		p.ID, p.UserID,
	)
	if err != nil {
		return nil, err
	}

	items := make([]models.ReviewItem, 0, len(occurrences))
	for _, occ := range occurrences {
		item := models.ReviewItem{
			UserID:        p.UserID,
			ReadingPartID: p.ID,
			IntervalDays:  occ.IntervalDays,
			DueDate:       occ.DueDate,
			Status:        models.ReviewStatusPlanned,
			Questions:     occ.Questions,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO review_schedule_items (user_id, reading_part_id, interval_days, due_date, status, questions)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			item.UserID, item.ReadingPartID, item.IntervalDays, item.DueDate, item.Status, item.Questions,
		).Scan(&item.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.GPTSummary = &summary
	p.GPTQuestionsByInterval = questions
	return items, nil
}
