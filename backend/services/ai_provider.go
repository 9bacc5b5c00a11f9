package services

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"qizz/backend/config"
)

// AIProvider is the single-shot completion boundary. Tests plug in a
// scripted provider; production uses the OpenAI chat-completions API.
type AIProvider interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// disabledProvider stands in when no API key is configured. Every call
// errors, which routes all AI output through the fallbacks.
type disabledProvider struct{}

func (disabledProvider) Complete(context.Context, string, string) (string, error) {
	return "", errors.New("ai provider not configured")
}

// OpenAIProvider implements AIProvider using the OpenAI SDK. A custom
// BaseURL makes it work against any OpenAI-compatible API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(cfg *config.Config) (*OpenAIProvider, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.OpenAIModel,
	}, nil
}

func (p *OpenAIProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}

	return resp.Choices[0].Message.Content, nil
}
