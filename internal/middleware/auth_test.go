package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func protectedEcho(t *testing.T) (http.Handler, *uuid.UUID) {
	t.Helper()
	var seen uuid.UUID
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &seen
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	auth := NewJWTAuth("test-secret", 15*time.Minute)
	userID := uuid.New()

	token, err := auth.GenerateAccessToken(userID, "reader@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	inner, seen := protectedEcho(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	auth.Middleware(inner).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if *seen != userID {
		t.Errorf("Expected user_id %s in context, got %s", userID, *seen)
	}
}

func TestJWTMiddleware_ErrorCodes(t *testing.T) {
	auth := NewJWTAuth("test-secret", 15*time.Minute)
	other := NewJWTAuth("other-secret", 15*time.Minute)
	expired := NewJWTAuth("test-secret", -time.Minute)

	foreignToken, _ := other.GenerateAccessToken(uuid.New(), "x@example.com")
	expiredToken, _ := expired.GenerateAccessToken(uuid.New(), "x@example.com")

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", "AUTH_REQUIRED"},
		{"not bearer", "Basic abc123", "AUTH_REQUIRED"},
		{"garbage token", "Bearer not-a-jwt", "AUTH_INVALID"},
		{"wrong secret", "Bearer " + foreignToken, "AUTH_INVALID"},
		{"expired token", "Bearer " + expiredToken, "AUTH_INVALID"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inner, _ := protectedEcho(t)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			auth.Middleware(inner).ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("Expected status 401, got %d", rr.Code)
			}

			var body map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if body["code"] != tc.wantCode {
				t.Errorf("Expected code %s, got %s", tc.wantCode, body["code"])
			}
			if body["detail"] == "" {
				t.Error("Expected a non-empty detail")
			}
		})
	}
}
