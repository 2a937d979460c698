package insight

import (
	"context"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// Generator produces short AI-written commentary for billing events. Every
// call is best-effort: on failure it returns an empty string rather than an
// error, so callers never fail a primary operation over an insight.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// Config holds OpenAI settings for the insight generator
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// OpenAIGenerator generates insights through the OpenAI chat API
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	temp   float32
}

// NewOpenAIGenerator creates an insight generator. Returns a no-op
// generator when no API key is configured.
func NewOpenAIGenerator(cfg Config) Generator {
	if cfg.APIKey == "" {
		return NopGenerator{}
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAIGenerator{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
		temp:   cfg.Temperature,
	}
}

// Generate asks the model for a short insight. Failures degrade to an
// empty string with a logged warning.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) string {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temp,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a concise financial assistant for a billing system. Answer in at most three sentences.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		log.Printf("Warning: AI insight generation failed: %v", err)
		return ""
	}
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}

// NopGenerator returns no insight. Used when OpenAI is not configured and
// in tests.
type NopGenerator struct{}

// Generate always returns an empty insight
func (NopGenerator) Generate(ctx context.Context, prompt string) string {
	return ""
}
