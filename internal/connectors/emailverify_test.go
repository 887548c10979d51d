package connectors

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baykus/baykus/internal/models"
)

func TestConfidenceScore(t *testing.T) {
	tests := []struct {
		name string
		v    EmailVerification
		want float64
	}{
		{
			"all signals positive",
			EmailVerification{IsValid: true, DomainAgeDays: 400, MXRecords: []string{"mx1"}, SMTPCheck: true},
			1.0,
		},
		{
			"all signals negative",
			EmailVerification{IsValid: false, IsDisposable: true, IsRoleAccount: true},
			0.0,
		},
		{
			"valid only",
			EmailVerification{IsValid: true, IsDisposable: true, IsRoleAccount: true},
			0.3,
		},
		{
			"young domain loses age weight",
			EmailVerification{IsValid: true, DomainAgeDays: 100, MXRecords: []string{"mx1"}, SMTPCheck: true},
			0.8,
		},
		{
			"exactly one year does not count as aged",
			EmailVerification{DomainAgeDays: 365, IsDisposable: true, IsRoleAccount: true},
			0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confidenceScore(tt.v)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("confidenceScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfidenceScoreMonotonic(t *testing.T) {
	base := EmailVerification{IsDisposable: true, IsRoleAccount: true}
	prev := confidenceScore(base)

	steps := []func(*EmailVerification){
		func(v *EmailVerification) { v.IsValid = true },
		func(v *EmailVerification) { v.IsDisposable = false },
		func(v *EmailVerification) { v.IsRoleAccount = false },
		func(v *EmailVerification) { v.DomainAgeDays = 1000 },
		func(v *EmailVerification) { v.MXRecords = []string{"mx1.example.com"} },
		func(v *EmailVerification) { v.SMTPCheck = true },
	}
	for i, step := range steps {
		step(&base)
		got := confidenceScore(base)
		if got < prev {
			t.Fatalf("step %d decreased the score: %v -> %v", i, prev, got)
		}
		prev = got
	}
	if prev != 1.0 {
		t.Errorf("all positive signals should reach 1.0, got %v", prev)
	}
}

func TestEmailVerifyInvalidInputSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	conn := testConnector(models.ConnectorTypeEmailVerify, srv.URL, nil)
	adapter := newEmailVerificationAdapter(testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))

	_, err := adapter.Search(context.Background(), "not-an-email", SearchOptions{})
	if KindOf(err) != ErrValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("invalid input reached the network %d times", calls)
	}
}

func TestEmailVerifyProcessData(t *testing.T) {
	conn := testConnector(models.ConnectorTypeEmailVerify, "https://api.example.com", nil)
	adapter := newEmailVerificationAdapter(testDeps(conn, NewTransport(&fakeStatusWriter{}, testLogger())))

	raw := map[string]any{
		"email":           "alice@example.com",
		"is_valid":        true,
		"is_disposable":   false,
		"is_role_account": false,
		"domain":          "example.com",
		"domain_age_days": 4000.0,
		"mx_records":      []any{"mx1.example.com", "mx2.example.com"},
		"smtp_check":      true,
	}

	result := adapter.ProcessData(raw)
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	v, ok := result.Data.(EmailVerification)
	if !ok {
		t.Fatalf("unexpected data type %T", result.Data)
	}
	if v.Email != "alice@example.com" || v.Domain != "example.com" {
		t.Errorf("fields not mapped: %+v", v)
	}
	if len(v.MXRecords) != 2 {
		t.Errorf("mx records = %v", v.MXRecords)
	}
	if v.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", v.Confidence)
	}

	// Unrecognizable payloads degrade instead of failing.
	degraded := adapter.ProcessData("plain text")
	if degraded.Error == "" {
		t.Error("expected degraded result for non-map payload")
	}
	if degraded.Raw != "plain text" {
		t.Error("degraded result must preserve the raw payload")
	}
}
