package service

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/sk800/ai-interview/config"
	"google.golang.org/api/option"
)

// GeminiClient is the shared language-model collaborator used for question
// generation, answer scoring and summary writing. A missing API key yields a
// degraded client whose callers fall back to deterministic behavior.
type GeminiClient interface {
	Available() bool
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type geminiClient struct {
	model *genai.GenerativeModel
}

func NewGeminiClient(cfg *config.Config) (GeminiClient, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question generation and scoring will use fallbacks.")
		return &geminiClient{}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiClient{model: client.GenerativeModel("gemini-1.5-flash")}, nil
}

func (c *geminiClient) Available() bool {
	return c.model != nil
}

func (c *geminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.model == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("gemini returned no content")
	}

	fullResponseText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullResponseText += string(txt)
		}
	}
	if fullResponseText == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return fullResponseText, nil
}
