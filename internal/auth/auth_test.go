package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baykus/baykus/internal/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateToken("admin", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	userID, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != "admin" {
		t.Errorf("userID = %q, want %q", userID, "admin")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("admin", "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken(token, "secret-b"); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken("admin", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken(token, "secret"); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-jwt", "secret"); err == nil {
		t.Error("expected malformed token to be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Error("hash should not equal the plaintext password")
	}
	if !CheckPassword("hunter2", hash) {
		t.Error("CheckPassword should accept the correct password")
	}
	if CheckPassword("wrong", hash) {
		t.Error("CheckPassword should reject an incorrect password")
	}
}

func TestMiddleware(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "secret"}
	token, err := GenerateToken("admin", cfg.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotUserID string
	handler := Middleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"malformed header", "Bearer", http.StatusUnauthorized},
		{"bad token", "Bearer bogus", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/api/connectors", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotUserID != "admin" {
				t.Errorf("user id in context = %q, want %q", gotUserID, "admin")
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Error("CORS header missing")
			}
		})
	}
}
