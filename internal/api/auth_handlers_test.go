package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/baykus/baykus/internal/auth"
	"github.com/baykus/baykus/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret",
		AdminPassword: "correct-horse",
		TokenDuration: time.Hour,
	}
}

func TestLogin(t *testing.T) {
	handler := NewAuthHandler(testAuthConfig(), testLogger())

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{"correct password", http.MethodPost, `{"password":"correct-horse"}`, http.StatusOK},
		{"wrong password", http.MethodPost, `{"password":"guess"}`, http.StatusUnauthorized},
		{"empty body", http.MethodPost, ``, http.StatusBadRequest},
		{"preflight", http.MethodOptions, ``, http.StatusOK},
		{"wrong method", http.MethodGet, ``, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Error("CORS header missing")
			}
		})
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	cfg := testAuthConfig()
	handler := NewAuthHandler(cfg, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"password":"correct-horse"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("token is empty")
	}
	if resp.ExpiresAt.Before(time.Now()) {
		t.Errorf("ExpiresAt %v is in the past", resp.ExpiresAt)
	}

	userID, err := auth.ValidateToken(resp.Token, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if userID != "admin" {
		t.Errorf("userID = %q, want admin", userID)
	}
}
