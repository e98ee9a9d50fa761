package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ads-insights-assistant/config"
	"ads-insights-assistant/internal/llm"
)

var conversation = []llm.Message{
	{Role: llm.RoleSystem, Content: "Be concise."},
	{Role: llm.RoleUser, Content: "What was total spend?"},
}

func TestNewChatModel_SelectsProvider(t *testing.T) {
	tests := []struct {
		provider  string
		wantModel string
		wantErr   bool
	}{
		{provider: "", wantModel: "gpt-4o"},
		{provider: llm.ProviderOpenAI, wantModel: "gpt-4o"},
		{provider: llm.ProviderAnthropic, wantModel: "claude-3-5-sonnet-latest"},
		{provider: llm.ProviderGemini, wantModel: "gemini-1.5-flash-latest"},
		{provider: "bard", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.LLM.Provider = tt.provider

			model, err := llm.NewChatModel(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, model.Model())
		})
	}
}

func TestOpenAIChatModel_ReturnsFirstChoice(t *testing.T) {
	var got struct {
		Model    string        `json:"model"`
		Messages []llm.Message `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "Total spend was 7.5"}, "finish_reason": "stop"},
				{"index": 1, "message": {"role": "assistant", "content": "ignored"}, "finish_reason": "stop"}
			],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	model := llm.NewOpenAIChatModel(config.LLMConfig{OpenAIAPIKey: "sk-test", OpenAIBaseURL: srv.URL + "/v1", Model: "gpt-4o"})
	answer, err := model.Complete(context.Background(), conversation)

	require.NoError(t, err)
	assert.Equal(t, "Total spend was 7.5", answer)
	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, conversation, got.Messages)
}

func TestOpenAIChatModel_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o","choices":[]}`))
	}))
	defer srv.Close()

	model := llm.NewOpenAIChatModel(config.LLMConfig{OpenAIAPIKey: "sk-test", OpenAIBaseURL: srv.URL + "/v1"})
	_, err := model.Complete(context.Background(), conversation)

	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestOpenAIChatModel_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	model := llm.NewOpenAIChatModel(config.LLMConfig{OpenAIAPIKey: "bad", OpenAIBaseURL: srv.URL + "/v1"})
	_, err := model.Complete(context.Background(), conversation)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion failed")
}

func TestGeminiChatModel_MapsRolesAndReturnsFirstCandidate(t *testing.T) {
	var got llm.GeminiRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"About 7.5"}]},"finishReason":"STOP","index":0}]}`))
	}))
	defer srv.Close()

	model := llm.NewGeminiChatModel(config.LLMConfig{GeminiAPIKey: "g-key", GeminiBaseURL: srv.URL, Model: "gemini-test", MaxTokens: 256})
	answer, err := model.Complete(context.Background(), conversation)

	require.NoError(t, err)
	assert.Equal(t, "About 7.5", answer)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "Be concise.", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "What was total spend?", got.Contents[0].Parts[0].Text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, 256, got.GenerationConfig.MaxOutputTokens)
}

func TestGeminiChatModel_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		isErr  error
	}{
		{name: "non-OK status", status: http.StatusTooManyRequests, body: `{"error":{}}`},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, isErr: llm.ErrEmptyResponse},
		{name: "bad json", status: http.StatusOK, body: `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			model := llm.NewGeminiChatModel(config.LLMConfig{GeminiBaseURL: srv.URL})
			_, err := model.Complete(context.Background(), conversation)

			require.Error(t, err)
			if tt.isErr != nil {
				assert.ErrorIs(t, err, tt.isErr)
			}
		})
	}
}

func TestAnthropicChatModel_SendsSystemSeparately(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "Spend totals 7.5"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 12, "output_tokens": 4}
		}`))
	}))
	defer srv.Close()

	model := llm.NewAnthropicChatModel(config.LLMConfig{AnthropicAPIKey: "a-key", AnthropicBaseURL: srv.URL, Model: "claude-test"})
	answer, err := model.Complete(context.Background(), conversation)

	require.NoError(t, err)
	assert.Equal(t, "Spend totals 7.5", answer)
	assert.Equal(t, "claude-test", got["model"])
	assert.NotNil(t, got["system"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 1)
}
