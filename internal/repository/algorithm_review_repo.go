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

type AlgorithmReviewRepo struct {
	pool *pgxpool.Pool
}

func NewAlgorithmReviewRepo(pool *pgxpool.Pool) *AlgorithmReviewRepo {
	return &AlgorithmReviewRepo{pool: pool}
}

const algorithmReviewViewSelect = `
	SELECT r.id, r.algorithm_id, r.interval_days, r.due_date, r.status,
		g.id, g.title, a.title,
		(SELECT att.gpt_rating_1_to_5 FROM algorithm_review_attempts att
			WHERE att.review_item_id = r.id AND att.user_id = r.user_id
			ORDER BY att.created_at DESC, att.id DESC LIMIT 1)
	FROM algorithm_review_items r
	JOIN algorithms a ON a.id = r.algorithm_id
	JOIN algorithm_groups g ON g.id = a.group_id
`

func (r *AlgorithmReviewRepo) scanViews(rows pgx.Rows) ([]models.AlgorithmReviewItemView, error) {
	defer rows.Close()

	items := make([]models.AlgorithmReviewItemView, 0)
	for rows.Next() {
		var v models.AlgorithmReviewItemView
		if err := rows.Scan(
			&v.ID, &v.AlgorithmID, &v.IntervalDays, &v.DueDate, &v.Status,
			&v.GroupID, &v.GroupTitle, &v.Title, &v.GPTRating1To5,
		); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// ListScheduled returns planned occurrences due today or later.
func (r *AlgorithmReviewRepo) ListScheduled(ctx context.Context, userID uuid.UUID) ([]models.AlgorithmReviewItemView, error) {
	rows, err := r.pool.Query(ctx, algorithmReviewViewSelect+`
		WHERE r.user_id = $1 AND r.status = 'planned' AND r.due_date >= CURRENT_DATE
		ORDER BY r.due_date, r.id`, userID)
	if err != nil {
		return nil, err
	}
	return r.scanViews(rows)
}

// ListDueToday returns planned occurrences due exactly today.
func (r *AlgorithmReviewRepo) ListDueToday(ctx context.Context, userID uuid.UUID) ([]models.AlgorithmReviewItemView, error) {
	rows, err := r.pool.Query(ctx, algorithmReviewViewSelect+`
		WHERE r.user_id = $1 AND r.status = 'planned' AND r.due_date = CURRENT_DATE
		ORDER BY r.due_date, r.id`, userID)
	if err != nil {
		return nil, err
	}
	return r.scanViews(rows)
}

func (r *AlgorithmReviewRepo) GetDetail(ctx context.Context, id int64, userID uuid.UUID) (*models.AlgorithmReviewDetail, error) {
	d := &models.AlgorithmReviewDetail{}
	query := `
		SELECT r.id, r.algorithm_id, r.interval_days, r.due_date, r.status,
			g.id, g.title, a.title,
			a.summary, a.when_to_use, a.complexity, a.invariants, a.steps, a.corner_cases,
			r.questions,
			(SELECT att.gpt_check_json FROM algorithm_review_attempts att
				WHERE att.review_item_id = r.id AND att.user_id = $2
				ORDER BY att.created_at DESC, att.id DESC LIMIT 1)
		FROM algorithm_review_items r
		JOIN algorithms a ON a.id = r.algorithm_id
		JOIN algorithm_groups g ON g.id = a.group_id
		WHERE r.id = $1 AND r.user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&d.ID, &d.AlgorithmID, &d.IntervalDays, &d.DueDate, &d.Status,
		&d.GroupID, &d.GroupTitle, &d.Title,
		&d.Summary, &d.WhenToUse, &d.Complexity, &d.Invariants, &d.Steps, &d.CornerCases,
		&d.Questions, &d.GPTFeedback,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Reschedule moves a planned occurrence to a new due date. Returns
// ErrAlreadyCompleted when the occurrence is done.
func (r *AlgorithmReviewRepo) Reschedule(ctx context.Context, id int64, userID uuid.UUID, dueDate models.Date) (*models.AlgorithmReviewItem, error) {
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT status FROM algorithm_review_items WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&status)
	if err != nil {
		return nil, err
	}
	if status == models.ReviewStatusDone {
		return nil, ErrAlreadyCompleted
	}

	item := &models.AlgorithmReviewItem{}
	query := `
		UPDATE algorithm_review_items SET due_date = $1
		WHERE id = $2 AND user_id = $3 AND status = 'planned'
		RETURNING id, user_id, algorithm_id, interval_days, due_date, status, completed_at, questions`

	err = r.pool.QueryRow(ctx, query, dueDate, id, userID).Scan(
		&item.ID, &item.UserID, &item.AlgorithmID, &item.IntervalDays,
		&item.DueDate, &item.Status, &item.CompletedAt, &item.Questions,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *AlgorithmReviewRepo) Complete(ctx context.Context, id int64, userID uuid.UUID, answers json.RawMessage) (*models.AlgorithmReviewAttempt, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx,
		`SELECT status FROM algorithm_review_items WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID,
	).Scan(&status)
	if err != nil {
		return nil, err
	}
	if status == models.ReviewStatusDone {
		return nil, ErrAlreadyCompleted
	}

	_, err = tx.Exec(ctx,
		`UPDATE algorithm_review_items SET status = 'done', completed_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
	if err != nil {
		return nil, err
	}

	attempt := &models.AlgorithmReviewAttempt{UserID: userID, ReviewItemID: id, Answers: answers}
	err = tx.QueryRow(ctx, `
		INSERT INTO algorithm_review_attempts (user_id, review_item_id, answers)
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

func (r *AlgorithmReviewRepo) AttachFeedback(ctx context.Context, itemID int64, userID uuid.UUID, checkJSON json.RawMessage, rating, score int, verdict string) (*models.AlgorithmReviewAttempt, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM algorithm_review_items WHERE id = $1 AND user_id = $2)`,
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
		SELECT id FROM algorithm_review_attempts
		WHERE review_item_id = $1 AND user_id = $2
		ORDER BY created_at DESC, id DESC LIMIT 1 FOR UPDATE`,
		itemID, userID,
	).Scan(&attemptID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx,
			`INSERT INTO algorithm_review_attempts (user_id, review_item_id) VALUES ($1, $2) RETURNING id`,
			userID, itemID,
		).Scan(&attemptID)
	}
	if err != nil {
		return nil, err
	}

	attempt := &models.AlgorithmReviewAttempt{}
	err = tx.QueryRow(ctx, `
		UPDATE algorithm_review_attempts
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

// Stats returns the per-algorithm review rollup.
func (r *AlgorithmReviewRepo) Stats(ctx context.Context, userID uuid.UUID) ([]models.AlgorithmReviewStats, error) {
	query := `
		SELECT g.id, g.title, a.id, a.title,
			COUNT(r.id),
			COUNT(r.id) FILTER (WHERE r.status = 'done'),
			(SELECT COUNT(*) FROM algorithm_review_attempts att
				JOIN algorithm_review_items ri ON ri.id = att.review_item_id
				WHERE ri.algorithm_id = a.id AND att.user_id = $1 AND att.gpt_rating_1_to_5 IS NOT NULL),
			(SELECT AVG(att.gpt_rating_1_to_5) FROM algorithm_review_attempts att
				JOIN algorithm_review_items ri ON ri.id = att.review_item_id
				WHERE ri.algorithm_id = a.id AND att.user_id = $1 AND att.gpt_rating_1_to_5 IS NOT NULL)
		FROM algorithms a
		JOIN algorithm_groups g ON g.id = a.group_id
		LEFT JOIN algorithm_review_items r ON r.algorithm_id = a.id
		WHERE a.user_id = $1
		GROUP BY g.id, g.title, a.id, a.title
		ORDER BY g.title, a.title`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]models.AlgorithmReviewStats, 0)
	for rows.Next() {
		var s models.AlgorithmReviewStats
		if err := rows.Scan(&s.GroupID, &s.GroupTitle, &s.AlgorithmID, &s.AlgorithmTitle,
			&s.TotalReviews, &s.CompletedReviews, &s.GPTAttemptsTotal, &s.GPTAverageRating); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
