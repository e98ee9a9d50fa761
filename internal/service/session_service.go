package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"ads-insights-assistant/config"
	"ads-insights-assistant/internal/dataframe"
	"ads-insights-assistant/internal/dto"
	"ads-insights-assistant/internal/insights"
	"ads-insights-assistant/internal/store"
)

// ErrInvalidRequest marks report parameters rejected before any request is sent.
var ErrInvalidRequest = errors.New("invalid request")

type SessionService interface {
	// CreateSession fetches a report and stores it under a new session. A failed initial
	// fetch stores nothing.
	CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetDataset(ctx context.Context, sessionID string) (*dto.DatasetResponse, error)
	RenderDataset(ctx context.Context, sessionID string) (string, error)
	GetSummary(ctx context.Context, sessionID string) (*dto.SummaryResponse, error)
	GetHistory(ctx context.Context, sessionID string) (*dto.HistoryResponse, error)
	// RefreshSession re-fetches with the session's parameters. On an initial-fetch failure the
	// previous report is kept.
	RefreshSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	// RefreshAll refreshes every session one at a time and returns the joined failures.
	RefreshAll(ctx context.Context) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type sessionService struct {
	fetcher  insights.ReportFetcher
	sessions store.SessionStore
	defaults config.ReportConfig
}

func NewSessionService(fetcher insights.ReportFetcher, sessions store.SessionStore, cfg *config.Config) SessionService {
	return &sessionService{
		fetcher:  fetcher,
		sessions: sessions,
		defaults: cfg.Report,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	params := s.buildParams(req)
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	report, err := s.fetcher.Fetch(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("Session Service: Initial report fetch failed")
		return nil, err
	}

	sess, err := s.sessions.CreateSession(ctx, params, report)
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	log.Info().Str("session_id", sess.ID).Int("rows", report.Frame.Len()).Msg("Session Service: Session created")
	return toSessionResponse(sess), nil
}

func (s *sessionService) GetDataset(ctx context.Context, sessionID string) (*dto.DatasetResponse, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	frame := sess.Report.Frame
	return &dto.DatasetResponse{
		SessionID: sess.ID,
		Columns:   frame.Columns(),
		Data:      frame.Rows(),
		Rows:      frame.Len(),
	}, nil
}

func (s *sessionService) RenderDataset(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return sess.Report.Frame.String(), nil
}

func (s *sessionService) GetSummary(ctx context.Context, sessionID string) (*dto.SummaryResponse, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary := sess.Report.Frame.Describe()
	return &dto.SummaryResponse{
		SessionID: sess.ID,
		Summary:   summary.String(),
		Columns:   summaryColumns(summary),
		Data:      summaryData(summary),
	}, nil
}

func (s *sessionService) GetHistory(ctx context.Context, sessionID string) (*dto.HistoryResponse, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.HistoryResponse{SessionID: sess.ID, Turns: sess.History}, nil
}

func (s *sessionService) RefreshSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	report, err := s.fetcher.Fetch(ctx, sess.Params)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Session Service: Refresh failed, keeping previous report")
		return nil, err
	}

	updated, err := s.sessions.ReplaceReport(ctx, sessionID, report)
	if err != nil {
		return nil, err
	}
	log.Info().Str("session_id", sessionID).Int("rows", report.Frame.Len()).Msg("Session Service: Session refreshed")
	return toSessionResponse(updated), nil
}

func (s *sessionService) RefreshAll(ctx context.Context) error {
	ids := s.sessions.ListSessionIDs(ctx)
	log.Info().Int("sessions", len(ids)).Msg("Session Service: Refreshing all sessions")

	var errs []error
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if _, err := s.RefreshSession(ctx, id); err != nil && !errors.Is(err, store.ErrSessionNotFound) {
			errs = append(errs, fmt.Errorf("session %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (s *sessionService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteSession(ctx, sessionID)
}

// buildParams overlays request overrides on the configured defaults. An explicit since/until
// window replaces the date preset.
func (s *sessionService) buildParams(req dto.CreateSessionRequest) insights.Params {
	params := insights.DefaultParams(s.defaults)
	if req.DatePreset != "" {
		params.DatePreset = req.DatePreset
	}
	if req.Since != "" || req.Until != "" {
		params.Since, params.Until = req.Since, req.Until
		params.DatePreset = ""
	}
	if req.Level != "" {
		params.Level = req.Level
	}
	if req.TimeIncrement != "" {
		params.TimeIncrement = req.TimeIncrement
	}
	if len(req.Fields) > 0 {
		params.Fields = append([]string(nil), req.Fields...)
	}
	return params
}

func toSessionResponse(sess store.Session) *dto.SessionResponse {
	report := sess.Report
	resp := &dto.SessionResponse{
		SessionID:   sess.ID,
		Rows:        report.Frame.Len(),
		Columns:     report.Frame.Columns(),
		Pages:       report.Pages,
		Truncated:   report.Truncated,
		FetchedAt:   report.FetchedAt,
		CreatedAt:   sess.CreatedAt,
		RefreshedAt: sess.RefreshedAt,
	}
	if report.Truncated {
		warning := fmt.Sprintf("Report is incomplete: pagination stopped after %d page(s)", report.Pages)
		if report.StopErr != nil {
			warning += ": " + report.StopErr.Error()
		}
		resp.Warning = &warning
	}
	return resp
}

func summaryColumns(summary dataframe.Summary) []string {
	cols := make([]string, 0, len(summary.Columns)+1)
	cols = append(cols, "statistic")
	for _, c := range summary.Columns {
		cols = append(cols, c.Name)
	}
	return cols
}

func summaryData(summary dataframe.Summary) [][]interface{} {
	if len(summary.Columns) == 0 {
		return [][]interface{}{}
	}
	stats := summary.Stats()
	data := make([][]interface{}, 0, len(stats))
	for _, stat := range stats {
		row := make([]interface{}, 0, len(summary.Columns)+1)
		row = append(row, stat)
		for _, c := range summary.Columns {
			row = append(row, c.Cell(stat))
		}
		data = append(data, row)
	}
	return data
}
