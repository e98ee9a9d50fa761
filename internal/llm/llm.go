// Package llm wraps the chat completion providers the assistant can forward questions to.
package llm

import (
	"context"
	"errors"
	"fmt"

	"ads-insights-assistant/config"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// ErrEmptyResponse is returned when the provider answers without any choice or text.
var ErrEmptyResponse = errors.New("model returned an empty response")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatModel sends an ordered list of role-tagged messages and returns the text of the first
// choice.
type ChatModel interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Model() string
}

func NewChatModel(cfg *config.Config) (ChatModel, error) {
	switch cfg.LLM.Provider {
	case "", ProviderOpenAI:
		return NewOpenAIChatModel(cfg.LLM), nil
	case ProviderAnthropic:
		return NewAnthropicChatModel(cfg.LLM), nil
	case ProviderGemini:
		return NewGeminiChatModel(cfg.LLM), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLM.Provider)
	}
}
