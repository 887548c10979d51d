package enrichment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/baykus/baykus/internal/models"
)

// MockSummarizer produces deterministic rule-based summaries without any API
// calls. Used when no OpenAI key is configured and in tests.
type MockSummarizer struct{}

// NewMockSummarizer creates a summarizer that never leaves the process.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize counts assets by type and renders a fixed-format paragraph.
func (m *MockSummarizer) Summarize(ctx context.Context, target models.Target, assets []models.Asset) (string, error) {
	if len(assets) == 0 {
		return fmt.Sprintf("No assets have been discovered for %s yet.", target.Name), nil
	}

	byType := make(map[string]int)
	verified := 0
	for _, a := range assets {
		byType[a.AssetType]++
		if a.IsVerified {
			verified++
		}
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%d %s", byType[t], t))
	}

	return fmt.Sprintf("%s (%s) has %d discovered assets: %s. %d of them are verified.",
		target.Name, target.Type, len(assets), strings.Join(parts, ", "), verified), nil
}
