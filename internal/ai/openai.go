package ai

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"leadscout-go-pipeline/internal/models"
)

// OpenAIProvider implements Provider using the OpenAI chat API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(model string) (*OpenAIProvider, error) {
	apiKey := os.Getenv("LEADSCOUT_OPENAI_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("LEADSCOUT_OPENAI_KEY or OPENAI_API_KEY environment variable required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{client: openai.NewClient(apiKey), model: model}, nil
}

func (p *OpenAIProvider) ScoreLead(ctx context.Context, tokens string) (models.LeadScore, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(tokens)},
		},
		MaxTokens: 512,
	})
	if err != nil {
		return models.LeadScore{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.LeadScore{}, fmt.Errorf("empty response from openai")
	}
	return parseScoreJSON(resp.Choices[0].Message.Content)
}
