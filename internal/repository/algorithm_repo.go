package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"studylight-backend/internal/models"
	"studylight-backend/internal/review"
)

// Import reference errors, mapped to 404 at the handler boundary.
var (
	ErrGroupNotFound      = errors.New("algorithm group not found")
	ErrSourcePartNotFound = errors.New("source reading part not found")
	ErrGroupExists        = errors.New("algorithm group already exists")
)

type AlgorithmRepo struct {
	pool *pgxpool.Pool
}

func NewAlgorithmRepo(pool *pgxpool.Pool) *AlgorithmRepo {
	return &AlgorithmRepo{pool: pool}
}

// AlgorithmImportRow pairs an import item with its already validated
// question map.
type AlgorithmImportRow struct {
	Item      models.AlgorithmImportItem
	Questions review.QuestionsByInterval
}

// getOrCreateGroup resolves a group by normalized title inside the import
// transaction. ON CONFLICT DO NOTHING keeps a concurrent insert from
// aborting the transaction; the loser re-reads the winner's row.
func getOrCreateGroup(ctx context.Context, tx pgx.Tx, userID uuid.UUID, payload models.AlgorithmGroupPayload, created *int) (int64, error) {
	norm := review.NormalizeGroupTitle(payload.Title)

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO algorithm_groups (user_id, title, title_norm, description, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, title_norm) DO NOTHING
		RETURNING id`,
		userID, payload.Title, norm, payload.Description, payload.Notes,
	).Scan(&id)
	if err == nil {
		*created++
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = tx.QueryRow(ctx,
		`SELECT id FROM algorithm_groups WHERE user_id = $1 AND title_norm = $2`,
		userID, norm,
	).Scan(&id)
	return id, err
}

// Import creates groups, algorithms, code snippets and review schedules in
// one transaction. Validation happens before this is called; any reference
// failure here rolls the whole batch back.
func (r *AlgorithmRepo) Import(ctx context.Context, userID uuid.UUID, groups []models.AlgorithmGroupPayload, items []AlgorithmImportRow, intervals []int, base models.Date) (*models.AlgorithmImportResponse, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	resp := &models.AlgorithmImportResponse{
		AlgorithmsCreated: make([]models.AlgorithmImportResult, 0, len(items)),
	}
	groupIDs := make(map[string]int64)

	for _, g := range groups {
		id, err := getOrCreateGroup(ctx, tx, userID, g, &resp.GroupsCreated)
		if err != nil {
			return nil, err
		}
		groupIDs[review.NormalizeGroupTitle(g.Title)] = id
	}

	for _, row := range items {
		item := row.Item

		var groupID int64
		switch {
		case item.GroupID != nil:
			err := tx.QueryRow(ctx,
				`SELECT id FROM algorithm_groups WHERE id = $1 AND user_id = $2`,
				*item.GroupID, userID,
			).Scan(&groupID)
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrGroupNotFound
			}
			if err != nil {
				return nil, err
			}
		default:
			norm := review.NormalizeGroupTitle(*item.GroupTitleNew)
			id, ok := groupIDs[norm]
			if !ok {
				id, err = getOrCreateGroup(ctx, tx, userID,
					models.AlgorithmGroupPayload{Title: *item.GroupTitleNew}, &resp.GroupsCreated)
				if err != nil {
					return nil, err
				}
				groupIDs[norm] = id
			}
			groupID = id
		}

		if item.SourcePartID != nil {
			var exists bool
			err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM reading_parts WHERE id = $1 AND user_id = $2)`,
				*item.SourcePartID, userID,
			).Scan(&exists)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, ErrSourcePartNotFound
			}
		}

		var algorithmID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO algorithms (user_id, group_id, source_part_id, title, summary,
				when_to_use, complexity, invariants, steps, corner_cases)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			userID, groupID, item.SourcePartID, item.Title, item.Summary,
			item.WhenToUse, item.Complexity, item.Invariants, item.Steps, item.CornerCases,
		).Scan(&algorithmID)
		if err != nil {
			return nil, err
		}

		if item.Code.CodeText != "" {
			_, err = tx.Exec(ctx, `
				INSERT INTO algorithm_code_snippets (user_id, algorithm_id, code_kind, language, code_text, is_reference)
				VALUES ($1, $2, $3, $4, $5, TRUE)`,
				userID, algorithmID, item.Code.CodeKind, item.Code.Language, item.Code.CodeText,
			)
			if err != nil {
				return nil, err
			}
		}

		for _, occ := range review.BuildSchedule(base, intervals, row.Questions) {
			_, err = tx.Exec(ctx, `
				INSERT INTO algorithm_review_items (user_id, algorithm_id, interval_days, due_date, status, questions)
				VALUES ($1, $2, $3, $4, 'planned', $5)`,
				userID, algorithmID, occ.IntervalDays, occ.DueDate, occ.Questions,
			)
			if err != nil {
				return nil, err
			}
			resp.ReviewItemsCreated++
		}

		resp.AlgorithmsCreated = append(resp.AlgorithmsCreated, models.AlgorithmImportResult{
			AlgorithmID: algorithmID,
			GroupID:     groupID,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return resp, nil
}

// List returns the user's algorithms, optionally restricted to one group.
func (r *AlgorithmRepo) List(ctx context.Context, userID uuid.UUID, groupID *int64) ([]models.AlgorithmListItem, error) {
	query := `
		SELECT a.id, a.group_id, g.title, a.title, a.summary, a.complexity,
			(SELECT COUNT(*) FROM algorithm_review_items ri WHERE ri.algorithm_id = a.id)
		FROM algorithms a
		JOIN algorithm_groups g ON g.id = a.group_id
		WHERE a.user_id = $1 AND ($2::bigint IS NULL OR a.group_id = $2)
		ORDER BY g.title, a.title, a.id`

	rows, err := r.pool.Query(ctx, query, userID, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.AlgorithmListItem, 0)
	for rows.Next() {
		var it models.AlgorithmListItem
		if err := rows.Scan(&it.ID, &it.GroupID, &it.GroupTitle, &it.Title, &it.Summary,
			&it.Complexity, &it.ReviewItemsCount); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *AlgorithmRepo) GetDetail(ctx context.Context, id int64, userID uuid.UUID) (*models.AlgorithmDetail, error) {
	d := &models.AlgorithmDetail{}
	var sourcePartID *int64

	query := `
		SELECT a.id, a.group_id, g.title, a.title, a.summary, a.when_to_use, a.complexity,
			a.invariants, a.steps, a.corner_cases, a.source_part_id,
			(SELECT COUNT(*) FROM algorithm_review_items ri WHERE ri.algorithm_id = a.id)
		FROM algorithms a
		JOIN algorithm_groups g ON g.id = a.group_id
		WHERE a.id = $1 AND a.user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&d.ID, &d.GroupID, &d.GroupTitle, &d.Title, &d.Summary, &d.WhenToUse, &d.Complexity,
		&d.Invariants, &d.Steps, &d.CornerCases, &sourcePartID, &d.ReviewItemsCount,
	)
	if err != nil {
		return nil, err
	}

	snippetRows, err := r.pool.Query(ctx, `
		SELECT id, user_id, algorithm_id, code_kind, language, code_text, is_reference, created_at
		FROM algorithm_code_snippets WHERE algorithm_id = $1 AND user_id = $2 ORDER BY id`,
		id, userID)
	if err != nil {
		return nil, err
	}
	defer snippetRows.Close()

	d.CodeSnippets = make([]models.AlgorithmCodeSnippet, 0)
	for snippetRows.Next() {
		var s models.AlgorithmCodeSnippet
		if err := snippetRows.Scan(&s.ID, &s.UserID, &s.AlgorithmID, &s.CodeKind,
			&s.Language, &s.CodeText, &s.IsReference, &s.CreatedAt); err != nil {
			return nil, err
		}
		d.CodeSnippets = append(d.CodeSnippets, s)
	}
	if err := snippetRows.Err(); err != nil {
		return nil, err
	}

	if sourcePartID != nil {
		part := &models.ReadingPart{}
		err := r.pool.QueryRow(ctx, `
			SELECT id, user_id, book_id, part_index, label, created_at, raw_notes,
				gpt_summary, gpt_questions_by_interval, pages_read, session_seconds, page_end
			FROM reading_parts WHERE id = $1 AND user_id = $2`,
			*sourcePartID, userID,
		).Scan(
			&part.ID, &part.UserID, &part.BookID, &part.PartIndex, &part.Label, &part.CreatedAt,
			&part.RawNotes, &part.GPTSummary, &part.GPTQuestionsByInterval,
			&part.PagesRead, &part.SessionSeconds, &part.PageEnd,
		)
		if err == nil {
			d.SourcePart = part
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	return d, nil
}

func (r *AlgorithmRepo) ListGroups(ctx context.Context, userID uuid.UUID) ([]models.AlgorithmGroupView, error) {
	query := `
		SELECT g.id, g.title, g.description, g.notes,
			(SELECT COUNT(*) FROM algorithms a WHERE a.group_id = g.id)
		FROM algorithm_groups g
		WHERE g.user_id = $1
		ORDER BY g.title`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.AlgorithmGroupView, 0)
	for rows.Next() {
		var g models.AlgorithmGroupView
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Notes, &g.AlgorithmsCount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *AlgorithmRepo) GetGroup(ctx context.Context, id int64, userID uuid.UUID) (*models.AlgorithmGroupView, error) {
	g := &models.AlgorithmGroupView{}
	err := r.pool.QueryRow(ctx, `
		SELECT g.id, g.title, g.description, g.notes,
			(SELECT COUNT(*) FROM algorithms a WHERE a.group_id = g.id)
		FROM algorithm_groups g
		WHERE g.id = $1 AND g.user_id = $2`,
		id, userID,
	).Scan(&g.ID, &g.Title, &g.Description, &g.Notes, &g.AlgorithmsCount)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// CreateGroup inserts a standalone group. Returns ErrGroupExists when a group
// with the same normalized title already exists for this user.
func (r *AlgorithmRepo) CreateGroup(ctx context.Context, userID uuid.UUID, req models.CreateGroupRequest) (*models.AlgorithmGroupView, error) {
	g := &models.AlgorithmGroupView{
		Title:       req.Title,
		Description: req.Description,
		Notes:       req.Notes,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO algorithm_groups (user_id, title, title_norm, description, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, title_norm) DO NOTHING
		RETURNING id`,
		userID, req.Title, review.NormalizeGroupTitle(req.Title), req.Description, req.Notes,
	).Scan(&g.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGroupExists
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateGroup applies a partial update. A title change that collides with
// another group of the same user returns ErrGroupExists.
func (r *AlgorithmRepo) UpdateGroup(ctx context.Context, id int64, userID uuid.UUID, req models.UpdateGroupRequest) (*models.AlgorithmGroupView, error) {
	group := &models.AlgorithmGroup{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, title_norm, description, notes FROM algorithm_groups WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&group.ID, &group.Title, &group.TitleNorm, &group.Description, &group.Notes)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		group.Title = *req.Title
		group.TitleNorm = review.NormalizeGroupTitle(*req.Title)
	}
	if req.Description != nil {
		group.Description = req.Description
	}
	if req.Notes != nil {
		group.Notes = req.Notes
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE algorithm_groups SET title = $1, title_norm = $2, description = $3, notes = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6`,
		group.Title, group.TitleNorm, group.Description, group.Notes, id, userID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrGroupExists
		}
		return nil, err
	}

	return r.GetGroup(ctx, id, userID)
}

// CreateTraining records a practice run. rating is pulled out of the grading
// payload by the caller; the payload itself is stored verbatim.
func (r *AlgorithmRepo) CreateTraining(ctx context.Context, userID uuid.UUID, req models.CreateTrainingRequest, rating *int) (*models.AlgorithmTrainingAttempt, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM algorithms WHERE id = $1 AND user_id = $2)`,
		req.AlgorithmID, userID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pgx.ErrNoRows
	}

	attempt := &models.AlgorithmTrainingAttempt{
		UserID:       userID,
		AlgorithmID:  req.AlgorithmID,
		Mode:         req.Mode,
		CodeText:     req.CodeText,
		GPTCheckJSON: req.GPTCheckResult,
		Rating1To5:   rating,
		Accuracy:     req.Accuracy,
		DurationSec:  req.DurationSec,
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO algorithm_training_attempts (user_id, algorithm_id, mode, code_text,
			gpt_check_json, rating_1_to_5, accuracy, duration_sec)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		userID, req.AlgorithmID, req.Mode, req.CodeText,
		req.GPTCheckResult, rating, req.Accuracy, req.DurationSec,
	).Scan(&attempt.ID, &attempt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// ListTrainings returns the most recent practice runs for one algorithm.
func (r *AlgorithmRepo) ListTrainings(ctx context.Context, userID uuid.UUID, algorithmID int64, limit int) ([]models.AlgorithmTrainingAttempt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, algorithm_id, mode, code_text, gpt_check_json,
			rating_1_to_5, accuracy, duration_sec, created_at
		FROM algorithm_training_attempts
		WHERE algorithm_id = $1 AND user_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3`,
		algorithmID, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]models.AlgorithmTrainingAttempt, 0)
	for rows.Next() {
		var a models.AlgorithmTrainingAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.AlgorithmID, &a.Mode, &a.CodeText,
			&a.GPTCheckJSON, &a.Rating1To5, &a.Accuracy, &a.DurationSec, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
