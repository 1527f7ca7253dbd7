package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studylight-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, is_active, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	user.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.IsActive, user.IsAdmin,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password_hash, is_active, is_admin, must_change_password, created_at, last_login_at, last_seen_at
		FROM users WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.IsAdmin,
		&user.MustChangePassword, &user.CreatedAt, &user.LastLoginAt, &user.LastSeenAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password_hash, is_active, is_admin, must_change_password, created_at, last_login_at, last_seen_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.IsAdmin,
		&user.MustChangePassword, &user.CreatedAt, &user.LastLoginAt, &user.LastSeenAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}

func (r *UserRepo) UpdateLastSeen(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_seen_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET password_hash = $1, must_change_password = FALSE WHERE id = $2",
		passwordHash, userID,
	)
	return err
}

// Settings defaults, applied when the per-user row is created lazily.
var defaultIntervalsJSON = json.RawMessage(`[1, 7, 16, 35, 90]`)

// GetOrCreateSettings returns the user's settings row, creating it with
// defaults on first access.
func (r *UserRepo) GetOrCreateSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_settings (user_id, timezone, pomodoro_work_min, pomodoro_break_min,
			daily_goal_weekday_min, daily_goal_weekend_min, intervals_days)
		VALUES ($1, 'Europe/Amsterdam', 25, 5, 40, 60, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, defaultIntervalsJSON)
	if err != nil {
		return nil, err
	}

	s := &models.UserSettings{}
	query := `SELECT user_id, timezone, pomodoro_work_min, pomodoro_break_min,
		daily_goal_weekday_min, daily_goal_weekend_min, intervals_days, updated_at
		FROM user_settings WHERE user_id = $1`
	err = r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.Timezone, &s.PomodoroWorkMin, &s.PomodoroBreakMin,
		&s.DailyGoalWeekdayMin, &s.DailyGoalWeekendMin, &s.IntervalsDays, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *UserRepo) UpdateSettings(ctx context.Context, s *models.UserSettings) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE user_settings SET timezone = $1, pomodoro_work_min = $2, pomodoro_break_min = $3,
			daily_goal_weekday_min = $4, daily_goal_weekend_min = $5, intervals_days = $6, updated_at = NOW()
		WHERE user_id = $7`,
		s.Timezone, s.PomodoroWorkMin, s.PomodoroBreakMin,
		s.DailyGoalWeekdayMin, s.DailyGoalWeekendMin, s.IntervalsDays, s.UserID,
	)
	return err
}
