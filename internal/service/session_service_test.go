package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ads-insights-assistant/config"
	"ads-insights-assistant/internal/dataframe"
	"ads-insights-assistant/internal/dto"
	"ads-insights-assistant/internal/insights"
	"ads-insights-assistant/internal/store"
)

type fakeFetcher struct {
	reports []*insights.Report
	errs    []error
	params  []insights.Params
}

func (f *fakeFetcher) Fetch(ctx context.Context, params insights.Params) (*insights.Report, error) {
	f.params = append(f.params, params)
	i := len(f.params) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.reports) {
		return f.reports[i], nil
	}
	return f.reports[len(f.reports)-1], nil
}

func sessionConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Report = config.ReportConfig{
		DatePreset:         "last_7d",
		Level:              "ad",
		Fields:             []string{"campaign_name", "spend", "impressions", "inline_link_clicks"},
		ActionReportTime:   "impression",
		AttributionWindows: []string{"1d_click"},
	}
	return cfg
}

func reportOf(frame *dataframe.Frame, pages int) *insights.Report {
	return &insights.Report{Frame: frame, Pages: pages, FetchedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
}

func TestSessionService_CreateSession_UsesDefaults(t *testing.T) {
	fetcher := &fakeFetcher{reports: []*insights.Report{reportOf(campaignFrame(), 2)}}
	svc := NewSessionService(fetcher, store.NewInMemorySessionStore(), sessionConfig())

	resp, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, 3, resp.Rows)
	assert.Equal(t, 2, resp.Pages)
	assert.False(t, resp.Truncated)
	assert.Nil(t, resp.Warning)
	require.Len(t, fetcher.params, 1)
	assert.Equal(t, "last_7d", fetcher.params[0].DatePreset)
	assert.Equal(t, "ad", fetcher.params[0].Level)
}

func TestSessionService_CreateSession_TimeRangeReplacesPreset(t *testing.T) {
	fetcher := &fakeFetcher{reports: []*insights.Report{reportOf(campaignFrame(), 1)}}
	svc := NewSessionService(fetcher, store.NewInMemorySessionStore(), sessionConfig())

	_, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{Since: "2024-05-01", Until: "2024-05-07", Level: "campaign"})

	require.NoError(t, err)
	got := fetcher.params[0]
	assert.Empty(t, got.DatePreset)
	assert.Equal(t, "2024-05-01", got.Since)
	assert.Equal(t, "campaign", got.Level)
}

func TestSessionService_CreateSession_InvalidWindow(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewSessionService(fetcher, store.NewInMemorySessionStore(), sessionConfig())

	_, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{Since: "2024-05-07", Until: "2024-05-01"})

	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, fetcher.params)
}

func TestSessionService_CreateSession_InitialFailureStoresNothing(t *testing.T) {
	sessions := store.NewInMemorySessionStore()
	apiErr := &insights.APIError{StatusCode: 400, Body: `{"error":{"message":"Invalid OAuth access token"}}`}
	svc := NewSessionService(&fakeFetcher{errs: []error{apiErr}}, sessions, sessionConfig())

	resp, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{})

	assert.Nil(t, resp)
	got, ok := insights.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 400, got.StatusCode)
	assert.Empty(t, sessions.ListSessionIDs(context.Background()))
}

func TestSessionService_CreateSession_TruncatedReportWarns(t *testing.T) {
	report := reportOf(campaignFrame(), 1)
	report.Truncated = true
	report.StopErr = &insights.APIError{StatusCode: 500, Body: "boom"}
	svc := NewSessionService(&fakeFetcher{reports: []*insights.Report{report}}, store.NewInMemorySessionStore(), sessionConfig())

	resp, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{})

	require.NoError(t, err)
	assert.True(t, resp.Truncated)
	require.NotNil(t, resp.Warning)
	assert.Contains(t, *resp.Warning, "after 1 page(s)")
	assert.Contains(t, *resp.Warning, "status 500")
}

func TestSessionService_DatasetAndSummary(t *testing.T) {
	svc := NewSessionService(&fakeFetcher{reports: []*insights.Report{reportOf(campaignFrame(), 1)}}, store.NewInMemorySessionStore(), sessionConfig())
	ctx := context.Background()
	created, err := svc.CreateSession(ctx, dto.CreateSessionRequest{})
	require.NoError(t, err)

	dataset, err := svc.GetDataset(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaign_name", "clicks", "impressions", "spend"}, dataset.Columns)
	assert.Len(t, dataset.Data, 3)

	text, err := svc.RenderDataset(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Contains(t, text, "Summer")

	summary, err := svc.GetSummary(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, campaignFrame().Describe().String(), summary.Summary)
	assert.Equal(t, "statistic", summary.Columns[0])
	assert.Equal(t, "count", summary.Data[0][0])
	assert.Equal(t, "3", summary.Data[0][1])
}

func TestSessionService_UnknownSession(t *testing.T) {
	svc := NewSessionService(&fakeFetcher{}, store.NewInMemorySessionStore(), sessionConfig())
	ctx := context.Background()

	_, err := svc.GetDataset(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	_, err = svc.GetSummary(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	_, err = svc.RefreshSession(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionService_RefreshReplacesTable(t *testing.T) {
	bigger := dataframe.Concat(campaignFrame(), campaignFrame())
	fetcher := &fakeFetcher{reports: []*insights.Report{reportOf(campaignFrame(), 1), reportOf(bigger, 2)}}
	svc := NewSessionService(fetcher, store.NewInMemorySessionStore(), sessionConfig())
	ctx := context.Background()
	created, err := svc.CreateSession(ctx, dto.CreateSessionRequest{DatePreset: "yesterday"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshSession(ctx, created.SessionID)

	require.NoError(t, err)
	assert.Equal(t, 6, refreshed.Rows)
	require.Len(t, fetcher.params, 2)
	assert.Equal(t, fetcher.params[0], fetcher.params[1])
}

func TestSessionService_RefreshFailureKeepsPreviousTable(t *testing.T) {
	fetcher := &fakeFetcher{
		reports: []*insights.Report{reportOf(campaignFrame(), 1)},
		errs:    []error{nil, errors.New("connection reset")},
	}
	svc := NewSessionService(fetcher, store.NewInMemorySessionStore(), sessionConfig())
	ctx := context.Background()
	created, err := svc.CreateSession(ctx, dto.CreateSessionRequest{})
	require.NoError(t, err)

	_, err = svc.RefreshSession(ctx, created.SessionID)
	require.Error(t, err)

	dataset, err := svc.GetDataset(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, dataset.Rows)
}

func TestSessionService_RefreshAllJoinsFailures(t *testing.T) {
	fetcher := &fakeFetcher{
		reports: []*insights.Report{reportOf(campaignFrame(), 1)},
		errs:    []error{nil, nil, errors.New("timeout"), nil},
	}
	svc := NewSessionService(fetcher, store.NewInMemorySessionStore(), sessionConfig())
	ctx := context.Background()
	_, err := svc.CreateSession(ctx, dto.CreateSessionRequest{})
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, dto.CreateSessionRequest{})
	require.NoError(t, err)

	err = svc.RefreshAll(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.Len(t, fetcher.params, 4)
}
