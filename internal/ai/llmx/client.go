package llmx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

// ErrUnavailable tags any transport, timeout or empty-response failure so
// callers can match it and take their fallback path
var ErrUnavailable = errors.New("llm upstream unavailable")

// Config is injected into the client; there is no package-level state
type Config struct {
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// DefaultConfig returns the default model settings
func DefaultConfig() Config {
	return Config{
		Model:     "gpt-4o-mini",
		Timeout:   45 * time.Second,
		MaxTokens: 2000,
	}
}

// Completer is the completion contract consumed by classification,
// question generation and CV structuring
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client wraps the OpenAI chat completions API in JSON mode
type Client struct {
	client *openai.Client
	config Config
}

// NewClient creates an LLM client with the given config
func NewClient(config Config) *Client {
	client := openai.NewClient(
		option.WithAPIKey(config.APIKey),
	)
	if config.Model == "" {
		config.Model = DefaultConfig().Model
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Client{client: &client, config: config}
}

// Complete sends one system+user exchange and returns the raw model text.
// All failures map to ErrUnavailable; the raw cause is kept in the chain.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model: c.config.Model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(int64(c.config.MaxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrUnavailable)
	}

	return completion.Choices[0].Message.Content, nil
}
