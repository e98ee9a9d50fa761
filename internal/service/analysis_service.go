package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"ads-insights-assistant/config"
	"ads-insights-assistant/internal/dataframe"
	"ads-insights-assistant/internal/llm"
)

// ErrUpstream marks a failure of the chat model call.
var ErrUpstream = errors.New("upstream model error")

const analysisPromptTemplate = `You are a data analysis expert. Here is a dataset summary:
%s

Now, answer the following question based on this dataset:
%s`

const analysisSystemPrompt = "You are a data analysis tool for advertising performance reports. " +
	"Keep answers concise and limited to what the dataset summary supports. " +
	"Do not recommend software or tools."

type AnalysisService interface {
	// Ask summarizes frame, forwards the summary and question to the chat model and returns
	// the model's text unmodified. Model failures wrap ErrUpstream.
	Ask(ctx context.Context, frame *dataframe.Frame, question string) (string, error)
	Model() string
}

type analysisService struct {
	chatModel    llm.ChatModel
	systemPrompt bool
}

func NewAnalysisService(chatModel llm.ChatModel, cfg *config.Config) AnalysisService {
	return &analysisService{
		chatModel:    chatModel,
		systemPrompt: cfg.LLM.SystemPromptEnabled,
	}
}

func (s *analysisService) Model() string { return s.chatModel.Model() }

func (s *analysisService) Ask(ctx context.Context, frame *dataframe.Frame, question string) (string, error) {
	if frame == nil {
		frame = dataframe.New()
	}
	summary := frame.Describe().String()
	messages := BuildAnalysisMessages(summary, question, s.systemPrompt)

	log.Info().Str("question", question).Int("rows", frame.Len()).Str("model", s.chatModel.Model()).Msg("Analysis Service: Asking model about dataset")

	answer, err := s.chatModel.Complete(ctx, messages)
	if err != nil {
		log.Error().Err(err).Str("question", question).Msg("Analysis Service: Model call failed")
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return answer, nil
}

// BuildAnalysisPrompt fills the fixed instruction template with the summary and question.
func BuildAnalysisPrompt(summary, question string) string {
	return fmt.Sprintf(analysisPromptTemplate, summary, question)
}

// BuildAnalysisMessages returns the messages sent to the model: the optional system
// instruction followed by the user prompt.
func BuildAnalysisMessages(summary, question string, withSystem bool) []llm.Message {
	messages := make([]llm.Message, 0, 2)
	if withSystem {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: analysisSystemPrompt})
	}
	return append(messages, llm.Message{Role: llm.RoleUser, Content: BuildAnalysisPrompt(summary, question)})
}
