package enrichment

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/baykus/baykus/internal/config"
	"github.com/baykus/baykus/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSummarizerPicksMockWithoutKey(t *testing.T) {
	s := NewSummarizer(config.EnrichmentConfig{}, testLogger())
	if _, ok := s.(*MockSummarizer); !ok {
		t.Errorf("expected *MockSummarizer, got %T", s)
	}

	s = NewSummarizer(config.EnrichmentConfig{APIKey: "sk-test", Model: "gpt-4o-mini"}, testLogger())
	if _, ok := s.(*OpenAISummarizer); !ok {
		t.Errorf("expected *OpenAISummarizer, got %T", s)
	}
}

func TestMockSummarizeEmpty(t *testing.T) {
	target := models.Target{Name: "John Doe", Type: models.TargetTypePerson}

	got, err := NewMockSummarizer().Summarize(context.Background(), target, nil)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := "No assets have been discovered for John Doe yet."
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestMockSummarizeCountsByType(t *testing.T) {
	target := models.Target{Name: "Acme", Type: models.TargetTypeOrganization}
	assets := []models.Asset{
		{AssetType: "email", Value: "a@acme.com", IsVerified: true},
		{AssetType: "email", Value: "b@acme.com"},
		{AssetType: "domain", Value: "acme.com", IsVerified: true},
	}

	got, err := NewMockSummarizer().Summarize(context.Background(), target, assets)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := "Acme (organization) has 3 discovered assets: 1 domain, 2 email. 2 of them are verified."
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}

	// Asset type counts are sorted, so repeated calls agree.
	again, _ := NewMockSummarizer().Summarize(context.Background(), target, assets)
	if again != got {
		t.Error("summaries differ between calls")
	}
}

func TestBuildPrompt(t *testing.T) {
	target := models.Target{
		Name:        "Acme",
		Type:        models.TargetTypeOrganization,
		Description: "shell company",
		Tags:        []string{"finance", "offshore"},
	}
	assets := []models.Asset{
		{AssetType: "domain", Value: "acme.com", Source: "whois", Confidence: 0.9, IsVerified: true},
		{AssetType: "email", Value: "ceo@acme.com", Source: "hunter", Confidence: 0.5},
	}

	prompt := buildPrompt(target, assets)

	for _, want := range []string{
		"Target: Acme (organization)",
		"Description: shell company",
		"Tags: finance, offshore",
		"Discovered assets (2):",
		"- [domain] acme.com (source: whois, confidence: 0.90, verified)",
		"- [email] ceo@acme.com (source: hunter, confidence: 0.50)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\nprompt:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptOmitsEmptyFields(t *testing.T) {
	prompt := buildPrompt(models.Target{Name: "bare", Type: models.TargetTypeOther}, nil)
	if strings.Contains(prompt, "Description:") || strings.Contains(prompt, "Tags:") {
		t.Errorf("empty fields should be omitted:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Discovered assets (0):") {
		t.Errorf("asset header missing:\n%s", prompt)
	}
}
