package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studylight-backend/internal/models"
)

// ErrAlreadyCompleted is returned when completing an occurrence that is
// already done.
var ErrAlreadyCompleted = errors.New("review item already completed")

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

const reviewViewSelect = `
	SELECT r.id, r.reading_part_id, r.interval_days, r.due_date, r.status,
		b.id, b.title, p.part_index, p.label
	FROM review_schedule_items r
	JOIN reading_parts p ON p.id = r.reading_part_id
	JOIN books b ON b.id = p.book_id
`

func (r *ReviewRepo) scanViews(rows pgx.Rows) ([]models.ReviewItemView, error) {
	defer rows.Close()

	items := make([]models.ReviewItemView, 0)
	for rows.Next() {
		var v models.ReviewItemView
		if err := rows.Scan(
			&v.ID, &v.ReadingPartID, &v.IntervalDays, &v.DueDate, &v.Status,
			&v.BookID, &v.BookTitle, &v.PartIndex, &v.Label,
		); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// ListScheduled returns planned occurrences due today or later, the
// schedule-ahead view.
func (r *ReviewRepo) ListScheduled(ctx context.Context, userID uuid.UUID) ([]models.ReviewItemView, error) {
	rows, err := r.pool.Query(ctx, reviewViewSelect+`
		WHERE r.user_id = $1 AND r.status = 'planned' AND r.due_date >= CURRENT_DATE
		ORDER BY r.due_date, r.id`, userID)
	if err != nil {
		return nil, err
	}
	return r.scanViews(rows)
}

// ListDueToday returns planned occurrences due exactly today. Together with
// ListOverdue this partitions the at-or-past-due set.
func (r *ReviewRepo) ListDueToday(ctx context.Context, userID uuid.UUID) ([]models.ReviewItemView, error) {
	rows, err := r.pool.Query(ctx, reviewViewSelect+`
		WHERE r.user_id = $1 AND r.status = 'planned' AND r.due_date = CURRENT_DATE
		ORDER BY r.due_date, r.id`, userID)
	if err != nil {
		return nil, err
	}
	return r.scanViews(rows)
}

// ListOverdue returns planned occurrences strictly before today.
func (r *ReviewRepo) ListOverdue(ctx context.Context, userID uuid.UUID) ([]models.ReviewItemView, error) {
	rows, err := r.pool.Query(ctx, reviewViewSelect+`
		WHERE r.user_id = $1 AND r.status = 'planned' AND r.due_date < CURRENT_DATE
		ORDER BY r.due_date, r.id`, userID)
	if err != nil {
		return nil, err
	}
	return r.scanViews(rows)
}

// GetDetail returns one occurrence with its part context, question snapshot
// and the grading payload of the most recent attempt, if any.
func (r *ReviewRepo) GetDetail(ctx context.Context, id int64, userID uuid.UUID) (*models.ReviewDetail, error) {
	d := &models.ReviewDetail{}
	query := `
		SELECT r.id, r.reading_part_id, r.interval_days, r.due_date, r.status,
			b.id, b.title, p.part_index, p.label,
			p.gpt_summary, p.raw_notes, r.questions,
			(SELECT a.gpt_check_json FROM review_attempts a
				WHERE a.review_item_id = r.id AND a.user_id = $2
				ORDER BY a.created_at DESC, a.id DESC LIMIT 1)
		FROM review_schedule_items r
		JOIN reading_parts p ON p.id = r.reading_part_id
		JOIN books b ON b.id = p.book_id
		WHERE r.id = $1 AND r.user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&d.ID, &d.ReadingPartID, &d.IntervalDays, &d.DueDate, &d.Status,
		&d.BookID, &d.BookTitle, &d.PartIndex, &d.Label,
		&d.Summary, &d.RawNotes, &d.Questions, &d.GPTFeedback,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Reschedule moves a planned occurrence to a new due date. Returns
// ErrAlreadyCompleted when the occurrence is done.
func (r *ReviewRepo) Reschedule(ctx context.Context, id int64, userID uuid.UUID, dueDate models.Date) (*models.ReviewItem, error) {
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT status FROM review_schedule_items WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&status)
	if err != nil {
		return nil, err
	}
	if status == models.ReviewStatusDone {
		return nil, ErrAlreadyCompleted
	}

	item := &models.ReviewItem{}
	query := `
		UPDATE review_schedule_items SET due_date = $1
		WHERE id = $2 AND user_id = $3 AND status = 'planned'
		RETURNING id, user_id, reading_part_id, interval_days, due_date, status, completed_at, questions`

	err = r.pool.QueryRow(ctx, query, dueDate, id, userID).Scan(
		&item.ID, &item.UserID, &item.ReadingPartID, &item.IntervalDays,
		&item.DueDate, &item.Status, &item.CompletedAt, &item.Questions,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Complete marks a planned occurrence done and records an attempt with the
// submitted answers. Returns ErrAlreadyCompleted if the occurrence is done,
// pgx.ErrNoRows if it does not exist for this user.
func (r *ReviewRepo) Complete(ctx context.Context, id int64, userID uuid.UUID, answers json.RawMessage) (*models.ReviewAttempt, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx,
		`SELECT status FROM review_schedule_items WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID,
	).Scan(&status)
	if err != nil {
		return nil, err
	}
	if status == models.ReviewStatusDone {
		return nil, ErrAlreadyCompleted
	}

	_, err = tx.Exec(ctx,
		`UPDATE review_schedule_items SET status = 'done', completed_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
	if err != nil {
		return nil, err
	}

	attempt := &models.ReviewAttempt{UserID: userID, ReviewItemID: id, Answers: answers}
	err = tx.QueryRow(ctx, `
		INSERT INTO review_attempts (user_id, review_item_id, answers)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		userID, id, answers,
	).Scan(&attempt.ID, &attempt.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return attempt, nil
}

// AttachFeedback stores a grading payload on the latest attempt of the
// occurrence, creating an attempt if none exists yet.
func (r *ReviewRepo) AttachFeedback(ctx context.Context, itemID int64, userID uuid.UUID, checkJSON json.RawMessage, rating, score int, verdict string) (*models.ReviewAttempt, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM review_schedule_items WHERE id = $1 AND user_id = $2)`,
		itemID, userID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pgx.ErrNoRows
	}

	var attemptID int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM review_attempts
		WHERE review_item_id = $1 AND user_id = $2
		ORDER BY created_at DESC, id DESC LIMIT 1 FOR UPDATE`,
		itemID, userID,
	).Scan(&attemptID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx,
			`INSERT INTO review_attempts (user_id, review_item_id) VALUES ($1, $2) RETURNING id`,
			userID, itemID,
		).Scan(&attemptID)
	}
	if err != nil {
		return nil, err
	}

	attempt := &models.ReviewAttempt{}
	err = tx.QueryRow(ctx, `
		UPDATE review_attempts
		SET gpt_check_json = $1, gpt_rating_1_to_5 = $2, gpt_score_0_to_100 = $3, gpt_verdict = $4
		WHERE id = $5
		RETURNING id, user_id, review_item_id, answers, gpt_check_json,
			gpt_rating_1_to_5, gpt_score_0_to_100, gpt_verdict, created_at`,
		checkJSON, rating, score, verdict, attemptID,
	).Scan(
		&attempt.ID, &attempt.UserID, &attempt.ReviewItemID, &attempt.Answers, &attempt.GPTCheckJSON,
		&attempt.GPTRating1To5, &attempt.GPTScore0To100, &attempt.GPTVerdict, &attempt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return attempt, nil
}

// PartStats returns the per-part review rollup for the user.
func (r *ReviewRepo) PartStats(ctx context.Context, userID uuid.UUID) ([]models.ReviewPartStats, error) {
	query := `
		SELECT p.id, b.id, b.title, p.part_index, p.label, p.gpt_summary,
			COUNT(r.id),
			COUNT(r.id) FILTER (WHERE r.status = 'done'),
			(SELECT COUNT(*) FROM review_attempts a
				JOIN review_schedule_items ri ON ri.id = a.review_item_id
				WHERE ri.reading_part_id = p.id AND a.user_id = $1 AND a.gpt_rating_1_to_5 IS NOT NULL),
			(SELECT AVG(a.gpt_rating_1_to_5) FROM review_attempts a
				JOIN review_schedule_items ri ON ri.id = a.review_item_id
				WHERE ri.reading_part_id = p.id AND a.user_id = $1 AND a.gpt_rating_1_to_5 IS NOT NULL)
		FROM reading_parts p
		JOIN books b ON b.id = p.book_id
		LEFT JOIN review_schedule_items r ON r.reading_part_id = p.id
		WHERE p.user_id = $1
		GROUP BY p.id, b.id, b.title, p.part_index, p.label, p.gpt_summary
		HAVING COUNT(r.id) > 0
		ORDER BY b.id, p.part_index`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]models.ReviewPartStats, 0)
	for rows.Next() {
		var s models.ReviewPartStats
		if err := rows.Scan(
			&s.ReadingPartID, &s.BookID, &s.BookTitle, &s.PartIndex, &s.Label, &s.Summary,
			&s.TotalReviews, &s.CompletedReviews, &s.GPTAttemptsTotal, &s.GPTAverageRating,
		); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Progress counts all occurrences vs completed ones, for the dashboard.
func (r *ReviewRepo) Progress(ctx context.Context, userID uuid.UUID) (models.ReviewProgress, error) {
	var p models.ReviewProgress
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'done')
		FROM review_schedule_items WHERE user_id = $1`, userID,
	).Scan(&p.Total, &p.Completed)
	return p, err
}

// TrackStats aggregates attempt ratings and occurrence counts for one review
// track. itemsTable and attemptsTable select the track.
func trackStats(ctx context.Context, pool *pgxpool.Pool, userID uuid.UUID, itemsTable, attemptsTable string) (models.TrackStats, error) {
	var s models.TrackStats
	query := `
		SELECT
			(SELECT AVG(gpt_rating_1_to_5) FROM ` + attemptsTable + `
				WHERE user_id = $1 AND gpt_rating_1_to_5 IS NOT NULL
				AND created_at >= NOW() - INTERVAL '7 days'),
			(SELECT AVG(gpt_rating_1_to_5) FROM ` + attemptsTable + `
				WHERE user_id = $1 AND gpt_rating_1_to_5 IS NOT NULL
				AND created_at >= NOW() - INTERVAL '30 days'),
			(SELECT COUNT(*) FROM ` + itemsTable + ` WHERE user_id = $1 AND status = 'planned'),
			(SELECT COUNT(*) FROM ` + itemsTable + ` WHERE user_id = $1 AND status = 'done')`

	err := pool.QueryRow(ctx, query, userID).Scan(
		&s.AverageRating7d, &s.AverageRating30d, &s.PlannedCount, &s.CompletedCount,
	)
	return s, err
}

// Overview builds the combined theory/algorithms stats payload.
func (r *ReviewRepo) Overview(ctx context.Context, userID uuid.UUID) (*models.StatsOverview, error) {
	theory, err := trackStats(ctx, r.pool, userID, "review_schedule_items", "review_attempts")
	if err != nil {
		return nil, err
	}
	algos, err := trackStats(ctx, r.pool, userID, "algorithm_review_items", "algorithm_review_attempts")
	if err != nil {
		return nil, err
	}
	return &models.StatsOverview{Theory: theory, Algorithms: algos}, nil
}
