package reply

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiModel implements TextModel on the Google GenAI API.
type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiModel{client: client, model: model}, nil
}

// GenerateText produces a completion for the prompt
func (m *GeminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from gemini")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			result += part.Text
		}
	}

	return result, nil
}
