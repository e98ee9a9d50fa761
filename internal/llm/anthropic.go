package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"ads-insights-assistant/config"
)

const defaultAnthropicModel = "claude-3-5-sonnet-latest"

type anthropicChatModel struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewAnthropicChatModel creates a model backed by the Anthropic Messages API or a compatible
// proxy when a base URL is configured.
func NewAnthropicChatModel(cfg config.LLMConfig) ChatModel {
	opts := []option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}
	if cfg.AnthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.AnthropicBaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &anthropicChatModel{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		timeout:   cfg.Timeout,
	}
}

func (m *anthropicChatModel) Model() string { return m.model }

func (m *anthropicChatModel) Complete(ctx context.Context, messages []Message) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	var system []anthropic.TextBlockParam
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, anthropic.NewTextBlock(msg.Content))
		case RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	req := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(m.model)),
		MaxTokens: anthropic.F(int64(m.maxTokens)),
		Messages:  anthropic.F(params),
	}
	if len(system) > 0 {
		req.System = anthropic.F(system)
	}

	resp, err := m.client.Messages.New(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("model", m.model).Msg("Anthropic message call failed")
		return "", fmt.Errorf("anthropic message call failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}
	if text == "" {
		log.Error().Str("stop_reason", string(resp.StopReason)).Msg("Anthropic response has no text blocks")
		return "", ErrEmptyResponse
	}
	return text, nil
}
