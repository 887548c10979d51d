package connectors

import (
	"context"
	"fmt"
)

// EmailVerification is the normalized result of an email lookup. The
// confidence score weighs the individual signals into a 0..1 value.
type EmailVerification struct {
	Service       string   `json:"service"`
	Email         string   `json:"email"`
	IsValid       bool     `json:"is_valid"`
	IsDisposable  bool     `json:"is_disposable"`
	IsRoleAccount bool     `json:"is_role_account"`
	Domain        string   `json:"domain"`
	DomainAgeDays int      `json:"domain_age_days"`
	MXRecords     []string `json:"mx_records"`
	SMTPCheck     bool     `json:"smtp_check"`
	Confidence    float64  `json:"confidence_score"`
}

// confidenceScore weighs the verification signals. Deliverability carries
// the most weight, disposability and domain age follow, the rest are
// tie-breakers. The sum is clamped to 1.0.
func confidenceScore(v EmailVerification) float64 {
	score := 0.0
	if v.IsValid {
		score += 0.3
	}
	if !v.IsDisposable {
		score += 0.2
	}
	if !v.IsRoleAccount {
		score += 0.1
	}
	if v.DomainAgeDays > 365 {
		score += 0.2
	}
	if len(v.MXRecords) > 0 {
		score += 0.1
	}
	if v.SMTPCheck {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

type emailVerifyAdapter struct {
	base
}

func newEmailVerificationAdapter(deps Deps) Adapter {
	return &emailVerifyAdapter{base: newBase("email_verify", deps)}
}

func (a *emailVerifyAdapter) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	if !validEmail(query) {
		return nil, newError(ErrValidation, "invalid email format: %s", query)
	}
	resp, err := a.get(ctx, a.settings.VerifyEndpoint, map[string]string{"email": query})
	if err != nil {
		return nil, err
	}
	return a.ProcessData(resp.Body), nil
}

func (a *emailVerifyAdapter) ProcessData(raw any) *Result {
	m := asMap(raw)
	if m == nil {
		return a.degraded("email_verification", raw, "unrecognized payload shape")
	}
	v := EmailVerification{
		Service:       a.service,
		Email:         str(m, "email"),
		IsValid:       boolean(m, "is_valid"),
		IsDisposable:  boolean(m, "is_disposable"),
		IsRoleAccount: boolean(m, "is_role_account"),
		Domain:        str(m, "domain"),
		DomainAgeDays: integer(m, "domain_age_days"),
		MXRecords:     strList(m, "mx_records"),
		SMTPCheck:     boolean(m, "smtp_check"),
	}
	v.Confidence = confidenceScore(v)
	return &Result{Service: a.service, Kind: "email_verification", Data: v, Raw: raw}
}

func (a *emailVerifyAdapter) TestConnection(ctx context.Context) (bool, string) {
	_, err := a.Search(ctx, "test@example.com", SearchOptions{})
	if err != nil {
		return false, fmt.Sprintf("email verification service connection failed: %v", err)
	}
	return true, "email verification service connection successful"
}
