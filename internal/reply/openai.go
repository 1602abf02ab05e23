package reply

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIModel implements TextModel on OpenAI chat completions.
type OpenAIModel struct {
	client *openai.Client
	model  string
}

func NewOpenAIModel(apiKey, model string) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIModel{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// GenerateText produces a completion for the prompt
func (m *OpenAIModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}
