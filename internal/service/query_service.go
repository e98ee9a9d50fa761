package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"ads-insights-assistant/internal/dto"
	"ads-insights-assistant/internal/kafka"
	"ads-insights-assistant/internal/model"
	"ads-insights-assistant/internal/store"
)

type QueryService interface {
	// Ask answers a question about a session's report. Model failures are reported inside the
	// response with resultType "error"; only an unknown session returns an error.
	Ask(ctx context.Context, sessionID string, req dto.QueryRequest) (*dto.QueryResponse, error)
}

type queryService struct {
	analysis AnalysisService
	sessions store.SessionStore
	events   kafka.QueryEventProducer
}

func NewQueryService(analysis AnalysisService, sessions store.SessionStore, events kafka.QueryEventProducer) QueryService {
	return &queryService{
		analysis: analysis,
		sessions: sessions,
		events:   events,
	}
}

func (s *queryService) Ask(ctx context.Context, sessionID string, req dto.QueryRequest) (*dto.QueryResponse, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("session_id", sessionID).Str("question", req.Question).Msg("Processing question")

	event := model.QueryEvent{
		SessionID:  sessionID,
		Question:   req.Question,
		Model:      s.analysis.Model(),
		ReportRows: sess.Report.Frame.Len(),
	}

	var resp *dto.QueryResponse
	answer, err := s.analysis.Ask(ctx, sess.Report.Frame, req.Question)
	if err != nil {
		resp = createErrorResponse(sessionID, req.Question, "An error occurred: "+err.Error())
		event.Status = model.QueryStatusFailed
		event.Error = err.Error()
	} else {
		resp = &dto.QueryResponse{
			SessionID:  sessionID,
			Question:   req.Question,
			Answer:     answer,
			ResultType: "answer",
		}
		event.Status = model.QueryStatusAnswered
		event.AnswerLength = len(answer)
	}
	resp.Model = s.analysis.Model()

	s.recordTurns(ctx, sessionID, req.Question, resp)

	event.OccurredAt = time.Now().UTC()
	if err := s.events.Produce(ctx, event); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to publish query event")
	}
	return resp, nil
}

func (s *queryService) recordTurns(ctx context.Context, sessionID, question string, resp *dto.QueryResponse) {
	reply := resp.Answer
	if resp.ErrorMessage != nil {
		reply = *resp.ErrorMessage
	}
	turns := []dto.ConversationTurn{
		{Role: "user", Content: question},
		{Role: "model", Content: reply},
	}
	for _, turn := range turns {
		if err := s.sessions.AddTurn(ctx, sessionID, turn); err != nil {
			// The session can disappear between the lookup and here.
			log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to record conversation turn")
			return
		}
	}
}

func createErrorResponse(sessionID, question, message string) *dto.QueryResponse {
	errMsg := message
	return &dto.QueryResponse{
		SessionID:    sessionID,
		Question:     question,
		ResultType:   "error",
		ErrorMessage: &errMsg,
	}
}
