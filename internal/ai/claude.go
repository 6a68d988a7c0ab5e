package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"leadscout-go-pipeline/internal/models"
)

// ClaudeProvider implements Provider using Anthropic's messages API.
type ClaudeProvider struct {
	client *anthropic.Client
	model  string
}

func NewClaudeProvider(model string) (*ClaudeProvider, error) {
	apiKey := os.Getenv("LEADSCOUT_ANTHROPIC_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("LEADSCOUT_ANTHROPIC_KEY or ANTHROPIC_API_KEY environment variable required")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	return &ClaudeProvider{client: &client, model: model}, nil
}

func (p *ClaudeProvider) ScoreLead(ctx context.Context, tokens string) (models.LeadScore, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserPrompt(tokens))),
		},
	})
	if err != nil {
		return models.LeadScore{}, fmt.Errorf("claude api error: %w", err)
	}

	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return models.LeadScore{}, fmt.Errorf("empty response from claude")
	}
	return parseScoreJSON(responseText)
}
