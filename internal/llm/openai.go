package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"ads-insights-assistant/config"
)

const defaultOpenAIModel = "gpt-4o"

type openAIChatModel struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

func NewOpenAIChatModel(cfg config.LLMConfig) ChatModel {
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIChatModel{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
}

func (m *openAIChatModel) Model() string { return m.model }

func (m *openAIChatModel) Complete(ctx context.Context, messages []Message) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:     m.model,
		Messages:  make([]openai.ChatCompletionMessage, 0, len(messages)),
		MaxTokens: m.maxTokens,
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("model", m.model).Msg("OpenAI chat completion failed")
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		log.Error().Str("model", m.model).Msg("OpenAI response has no choices")
		return "", ErrEmptyResponse
	}

	log.Debug().Str("model", resp.Model).Int("total_tokens", resp.Usage.TotalTokens).Msg("OpenAI chat completion received")
	return resp.Choices[0].Message.Content, nil
}
