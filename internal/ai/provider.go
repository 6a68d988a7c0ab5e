// Package ai wraps the LLM scoring collaborator behind a small Provider
// interface. Scoring is optional everywhere: a nil provider means the
// pipeline skips it, and a scoring failure degrades the lead, never fails
// it.
package ai

import (
	"context"
	"fmt"

	"leadscout-go-pipeline/internal/models"
)

// Provider scores one lead from its snapshot token block.
type Provider interface {
	ScoreLead(ctx context.Context, tokens string) (models.LeadScore, error)
}

// NewProvider creates a provider by name.
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}
