package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ads-insights-assistant/internal/dto"
	"ads-insights-assistant/internal/insights"
	"ads-insights-assistant/internal/model"
	"ads-insights-assistant/internal/store"
)

type recordingProducer struct {
	events []model.QueryEvent
	err    error
}

func (p *recordingProducer) Produce(ctx context.Context, event model.QueryEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingProducer) Close() error { return nil }

func newQueryFixture(t *testing.T, chat *fakeChatModel, events *recordingProducer) (QueryService, store.SessionStore, string) {
	t.Helper()
	sessions := store.NewInMemorySessionStore()
	sess, err := sessions.CreateSession(context.Background(), insights.Params{}, reportOf(campaignFrame(), 1))
	require.NoError(t, err)
	svc := NewQueryService(NewAnalysisService(chat, analysisConfig(true)), sessions, events)
	return svc, sessions, sess.ID
}

func TestQueryService_Ask_ReturnsModelAnswer(t *testing.T) {
	chat := &fakeChatModel{answer: "Total spend was 7.5"}
	events := &recordingProducer{}
	svc, sessions, id := newQueryFixture(t, chat, events)

	resp, err := svc.Ask(context.Background(), id, dto.QueryRequest{Question: "What was total spend?"})

	require.NoError(t, err)
	assert.Equal(t, "answer", resp.ResultType)
	assert.Equal(t, "What was total spend?", resp.Question)
	assert.Equal(t, "Total spend was 7.5", resp.Answer)
	assert.Equal(t, "fake-model", resp.Model)
	assert.Nil(t, resp.ErrorMessage)

	sess, err := sessions.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []dto.ConversationTurn{
		{Role: "user", Content: "What was total spend?"},
		{Role: "model", Content: "Total spend was 7.5"},
	}, sess.History)

	require.Len(t, events.events, 1)
	assert.Equal(t, model.QueryStatusAnswered, events.events[0].Status)
	assert.Equal(t, len("Total spend was 7.5"), events.events[0].AnswerLength)
	assert.Equal(t, 3, events.events[0].ReportRows)
	assert.False(t, events.events[0].OccurredAt.IsZero())
}

func TestQueryService_Ask_ModelFailureIsReportedNotReturned(t *testing.T) {
	chat := &fakeChatModel{err: errors.New("quota exceeded")}
	events := &recordingProducer{}
	svc, _, id := newQueryFixture(t, chat, events)

	resp, err := svc.Ask(context.Background(), id, dto.QueryRequest{Question: "What was total spend?"})

	require.NoError(t, err)
	assert.Equal(t, "error", resp.ResultType)
	require.NotNil(t, resp.ErrorMessage)
	assert.Contains(t, *resp.ErrorMessage, "An error occurred: ")
	assert.Contains(t, *resp.ErrorMessage, "quota exceeded")
	require.Len(t, events.events, 1)
	assert.Equal(t, model.QueryStatusFailed, events.events[0].Status)

	chat.err = nil
	chat.answer = "recovered"
	resp, err = svc.Ask(context.Background(), id, dto.QueryRequest{Question: "And now?"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Answer)
}

func TestQueryService_Ask_EmptyQuestionIsForwarded(t *testing.T) {
	chat := &fakeChatModel{answer: "Please ask a question."}
	svc, _, id := newQueryFixture(t, chat, &recordingProducer{})

	resp, err := svc.Ask(context.Background(), id, dto.QueryRequest{})

	require.NoError(t, err)
	assert.Equal(t, "Please ask a question.", resp.Answer)
	require.Len(t, chat.received, 1)
}

func TestQueryService_Ask_UnknownSession(t *testing.T) {
	chat := &fakeChatModel{answer: "unused"}
	events := &recordingProducer{}
	svc, _, _ := newQueryFixture(t, chat, events)

	_, err := svc.Ask(context.Background(), "missing", dto.QueryRequest{Question: "q"})

	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.Empty(t, chat.received)
	assert.Empty(t, events.events)
}

func TestQueryService_Ask_PublishFailureDoesNotFailQuery(t *testing.T) {
	chat := &fakeChatModel{answer: "fine"}
	svc, _, id := newQueryFixture(t, chat, &recordingProducer{err: errors.New("broker down")})

	resp, err := svc.Ask(context.Background(), id, dto.QueryRequest{Question: "q"})

	require.NoError(t, err)
	assert.Equal(t, "fine", resp.Answer)
}
