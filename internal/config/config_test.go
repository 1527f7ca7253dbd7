package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestLoad_TokenLifetimes(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/studylight_test")
	os.Setenv("REDIS_URL", "redis://localhost:6379")
	os.Setenv("JWT_SECRET", "test-secret")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("REDIS_URL")
		os.Unsetenv("JWT_SECRET")
	}()

	t.Run("defaults", func(t *testing.T) {
		os.Unsetenv("ACCESS_TOKEN_MINUTES")
		os.Unsetenv("REFRESH_TOKEN_DAYS")

		cfg := Load()
		if cfg.AccessTokenMinutes != 15 {
			t.Errorf("Expected default 15 access token minutes, got %d", cfg.AccessTokenMinutes)
		}
		if cfg.RefreshTokenDays != 7 {
			t.Errorf("Expected default 7 refresh token days, got %d", cfg.RefreshTokenDays)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		os.Setenv("ACCESS_TOKEN_MINUTES", "30")
		os.Setenv("REFRESH_TOKEN_DAYS", "14")
		defer os.Unsetenv("ACCESS_TOKEN_MINUTES")
		defer os.Unsetenv("REFRESH_TOKEN_DAYS")

		cfg := Load()
		if cfg.AccessTokenMinutes != 30 {
			t.Errorf("Expected 30 access token minutes, got %d", cfg.AccessTokenMinutes)
		}
		if cfg.RefreshTokenDays != 14 {
			t.Errorf("Expected 14 refresh token days, got %d", cfg.RefreshTokenDays)
		}
	})
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}
