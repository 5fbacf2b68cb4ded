package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"flightchat/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

var (
	// ErrRefused is returned when the model declines to answer.
	ErrRefused = errors.New("llm: completion refused")
	// ErrEmpty is returned when the completion has no content.
	ErrEmpty = errors.New("llm: empty completion")
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// OpenAIClient implements structured and free-text generation against any
// OpenAI-compatible chat completions endpoint. The model is configuration.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      logger.Client
}

func NewOpenAIClient(cfg Config, httpClient *http.Client, log logger.Client) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      log,
	}
}

// GenerateStructured asks for a JSON answer conforming to the schema
// reflected from out (a pointer) and decodes it into out.
func (c *OpenAIClient) GenerateStructured(ctx context.Context, systemPrompt, contextText, schemaName string, out any) error {
	schema, err := jsonschema.GenerateSchemaForType(out)
	if err != nil {
		return fmt.Errorf("llm: build schema %s: %w", schemaName, err)
	}

	content, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages(systemPrompt, contextText),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: schema,
			},
		},
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("llm: decode %s: %w", schemaName, err)
	}
	return nil
}

func (c *OpenAIClient) GenerateText(ctx context.Context, systemPrompt, contextText string) (string, error) {
	return c.complete(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages(systemPrompt, contextText),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
}

func (c *OpenAIClient) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Error("completion api error",
				logger.Field{Key: "status", Value: apiErr.HTTPStatusCode},
				logger.Field{Key: "type", Value: apiErr.Type},
				logger.Err(err),
			)
		}
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}

	c.logger.Debug("completion finished",
		logger.Field{Key: "model", Value: resp.Model},
		logger.Field{Key: "prompt_tokens", Value: resp.Usage.PromptTokens},
		logger.Field{Key: "completion_tokens", Value: resp.Usage.CompletionTokens},
	)

	if len(resp.Choices) == 0 {
		return "", ErrEmpty
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", fmt.Errorf("%w: %s", ErrRefused, msg.Refusal)
	}
	if msg.Content == "" {
		return "", ErrEmpty
	}
	return msg.Content, nil
}

func messages(systemPrompt, contextText string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: contextText},
	}
}
