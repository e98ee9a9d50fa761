package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"ads-insights-assistant/config"
)

const defaultGeminiModel = "gemini-1.5-flash-latest"

type GeminiPart struct {
	Text string `json:"text"`
}
type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}
type GeminiGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}
type GeminiRequestBody struct {
	Contents          []GeminiContent         `json:"contents"`
	SystemInstruction *GeminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
	Index        int           `json:"index"`
}

type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

type geminiChatModel struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	modelID    string
	maxTokens  int
}

func NewGeminiChatModel(cfg config.LLMConfig) ChatModel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	baseURL := cfg.GeminiBaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	return &geminiChatModel{
		apiKey:  cfg.GeminiAPIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		modelID:   model,
		maxTokens: cfg.MaxTokens,
	}
}

func (s *geminiChatModel) Model() string { return s.modelID }

func (s *geminiChatModel) Complete(ctx context.Context, messages []Message) (string, error) {
	requestBody := buildGeminiRequest(messages, s.maxTokens)
	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal Gemini request body")
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	respBodyBytes, err := s.callGeminiAPI(ctx, bodyBytes)
	if err != nil {
		return "", err
	}
	log.Debug().Bytes("raw_response", respBodyBytes).Msg("Gemini: Received raw response")

	var geminiResp GeminiResponse
	if err := json.Unmarshal(respBodyBytes, &geminiResp); err != nil {
		log.Error().Err(err).Bytes("response_body", respBodyBytes).Msg("Failed to unmarshal Gemini API response")
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		log.Error().Interface("gemini_response", geminiResp).Msg("Gemini response has no candidates or parts")
		return "", ErrEmptyResponse
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

func (s *geminiChatModel) callGeminiAPI(ctx context.Context, bodyBytes []byte) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.modelID, url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(bodyBytes))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini HTTP request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Gemini HTTP request failed")
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read Gemini response body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status_code", resp.StatusCode).Bytes("response_body", respBodyBytes).Msg("Gemini API returned non-OK status")
		return nil, fmt.Errorf("gemini API error: status code %d", resp.StatusCode)
	}

	return respBodyBytes, nil
}

// buildGeminiRequest moves system messages into the system instruction and maps the
// assistant role to Gemini's "model" role.
func buildGeminiRequest(messages []Message, maxTokens int) GeminiRequestBody {
	body := GeminiRequestBody{Contents: make([]GeminiContent, 0, len(messages))}
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			if body.SystemInstruction == nil {
				body.SystemInstruction = &GeminiContent{}
			}
			body.SystemInstruction.Parts = append(body.SystemInstruction.Parts, GeminiPart{Text: msg.Content})
		case RoleAssistant:
			body.Contents = append(body.Contents, GeminiContent{Role: "model", Parts: []GeminiPart{{Text: msg.Content}}})
		default:
			body.Contents = append(body.Contents, GeminiContent{Role: "user", Parts: []GeminiPart{{Text: msg.Content}}})
		}
	}
	if maxTokens > 0 {
		body.GenerationConfig = &GeminiGenerationConfig{MaxOutputTokens: maxTokens}
	}
	return body
}
