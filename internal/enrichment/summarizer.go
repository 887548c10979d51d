package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/baykus/baykus/internal/config"
	"github.com/baykus/baykus/internal/models"
)

// Summarizer produces a narrative summary of a target's discovered assets
// for inclusion in generated reports.
type Summarizer interface {
	Summarize(ctx context.Context, target models.Target, assets []models.Asset) (string, error)
}

const (
	summarizerTemperature = 0.3
	summarizerMaxTokens   = 1500
	summarizerTimeout     = 60 * time.Second
)

const systemPrompt = `You are an OSINT analyst. Given an investigation target and the digital
assets discovered for it, write a concise intelligence summary: who or what
the target is, what footprint was found, and anything notable about the
findings. Plain prose, no markdown, no speculation beyond the data given.`

// OpenAISummarizer generates summaries through the OpenAI chat completion API.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAISummarizer creates a summarizer backed by the OpenAI API.
func NewOpenAISummarizer(cfg config.EnrichmentConfig, logger *slog.Logger) *OpenAISummarizer {
	return &OpenAISummarizer{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
		logger: logger,
	}
}

// NewSummarizer returns the OpenAI implementation when an API key is
// configured and the deterministic mock otherwise.
func NewSummarizer(cfg config.EnrichmentConfig, logger *slog.Logger) Summarizer {
	if cfg.APIKey == "" {
		logger.Info("no openai api key configured, using mock summarizer")
		return NewMockSummarizer()
	}
	logger.Info("initialized openai summarizer", "model", cfg.Model)
	return NewOpenAISummarizer(cfg, logger)
}

// Summarize asks the model for a narrative summary, retrying on rate limits.
func (s *OpenAISummarizer) Summarize(ctx context.Context, target models.Target, assets []models.Asset) (string, error) {
	prompt := buildPrompt(target, assets)

	maxRetries := 3
	baseDelay := 1 * time.Second

	var resp openai.ChatCompletionResponse
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		apiCtx, cancel := context.WithTimeout(ctx, summarizerTimeout)
		resp, err = s.client.CreateChatCompletion(apiCtx, openai.ChatCompletionRequest{
			Model:       s.model,
			Temperature: summarizerTemperature,
			MaxTokens:   summarizerMaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		cancel()

		if err == nil {
			break
		}

		errStr := err.Error()
		if strings.Contains(errStr, "429") || strings.Contains(errStr, "Rate limit") {
			delay := baseDelay * time.Duration(1<<attempt)
			s.logger.Warn("openai rate limit hit, backing off",
				"target_id", target.ID,
				"attempt", attempt+1,
				"delay", delay)
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		break
	}
	if err != nil {
		return "", fmt.Errorf("summarize target %s: %w", target.ID, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarize target %s: empty completion", target.ID)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(target models.Target, assets []models.Asset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target: %s (%s)\n", target.Name, target.Type)
	if target.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", target.Description)
	}
	if len(target.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(target.Tags, ", "))
	}
	fmt.Fprintf(&b, "\nDiscovered assets (%d):\n", len(assets))
	for _, a := range assets {
		fmt.Fprintf(&b, "- [%s] %s (source: %s, confidence: %.2f", a.AssetType, a.Value, a.Source, a.Confidence)
		if a.IsVerified {
			b.WriteString(", verified")
		}
		b.WriteString(")\n")
	}
	return b.String()
}
