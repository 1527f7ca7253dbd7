package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	IsActive           bool       `json:"is_active"`
	IsAdmin            bool       `json:"is_admin"`
	MustChangePassword bool       `json:"must_change_password"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLoginAt        *time.Time `json:"last_login_at"`
	LastSeenAt         *time.Time `json:"last_seen_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserSettings is the per-user preferences row, created lazily with defaults
// on first access. IntervalsDays is kept as raw JSON: the stored list may
// contain numbers or numeric strings and is coerced by review.ParseIntervals.
type UserSettings struct {
	UserID              uuid.UUID       `json:"user_id"`
	Timezone            *string         `json:"timezone"`
	PomodoroWorkMin     *int            `json:"pomodoro_work_min"`
	PomodoroBreakMin    *int            `json:"pomodoro_break_min"`
	DailyGoalWeekdayMin *int            `json:"daily_goal_weekday_min"`
	DailyGoalWeekendMin *int            `json:"daily_goal_weekend_min"`
	IntervalsDays       json.RawMessage `json:"intervals_days"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// UpdateSettingsRequest carries partial settings updates. IntervalsDays stays
// raw so numeric strings pass through the same coercion as stored values.
type UpdateSettingsRequest struct {
	Timezone            *string         `json:"timezone"`
	PomodoroWorkMin     *int            `json:"pomodoro_work_min"`
	PomodoroBreakMin    *int            `json:"pomodoro_break_min"`
	DailyGoalWeekdayMin *int            `json:"daily_goal_weekday_min"`
	DailyGoalWeekendMin *int            `json:"daily_goal_weekend_min"`
	IntervalsDays       json.RawMessage `json:"intervals_days"`
}
