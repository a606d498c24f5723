package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls the OpenAI Chat Completions API.
type OpenAIClient struct {
	settings Settings
	client   *openai.Client
}

const (
	DefaultModel            = "gpt-4-0613"
	DefaultTemperature      = 0.7
	DefaultFrequencyPenalty = 0.2
	DefaultPresencePenalty  = 0.0
)

// NewOpenAIClient builds a client from explicit settings. SDK retries are
// disabled: each call is a single attempt.
func NewOpenAIClient(settings Settings) (*OpenAIClient, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if settings.Model == "" {
		settings.Model = DefaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(settings.APIKey),
		option.WithMaxRetries(0),
	}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}
	cli := openai.NewClient(opts...)
	return &OpenAIClient{
		settings: settings,
		client:   &cli,
	}, nil
}

func (c *OpenAIClient) Model() string {
	return c.settings.Model
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	if c.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.settings.Timeout)
		defer cancel()
	}
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.settings.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature:      openai.Float(c.settings.Temperature),
		FrequencyPenalty: openai.Float(c.settings.FrequencyPenalty),
		PresencePenalty:  openai.Float(c.settings.PresencePenalty),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
