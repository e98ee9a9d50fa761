package insights

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"ads-insights-assistant/config"
	"ads-insights-assistant/internal/dataframe"
)

// APIError is a non-success response from the reporting endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("insights API returned status %d: %s", e.StatusCode, e.Body)
}

// Report is the consolidated result of a fetch.
type Report struct {
	Frame *dataframe.Frame
	Pages int
	// Truncated is set when a follow-up page failed; Frame then holds the pages gathered
	// before the failure and StopErr the failure itself.
	Truncated bool
	StopErr   error
	FetchedAt time.Time
}

type ReportFetcher interface {
	// Fetch retrieves every page for params. A failed initial request returns a nil report
	// and the error; a failed follow-up request ends pagination and returns the partial report.
	Fetch(ctx context.Context, params Params) (*Report, error)
}

type reportFetcher struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
}

func NewReportFetcher(cfg *config.Config) ReportFetcher {
	timeout := cfg.Ads.HTTPTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &reportFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint:    fmt.Sprintf("%s/%s/act_%s/insights", cfg.Ads.BaseURL, cfg.Ads.APIVersion, cfg.Ads.AccountID),
		accessToken: cfg.Ads.AccessToken,
	}
}

func (f *reportFetcher) Fetch(ctx context.Context, params Params) (*Report, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report parameters: %w", err)
	}

	initialURL := f.endpoint + "?" + params.Values().Encode()
	log.Info().Str("endpoint", f.endpoint).Strs("fields", params.Fields).Str("level", params.Level).Msg("Fetching insights report")

	first, err := f.fetchPage(ctx, initialURL)
	if err != nil {
		log.Error().Err(err).Str("endpoint", f.endpoint).Msg("Failed to fetch data")
		return nil, err
	}

	pages := []Page{first}
	report := &Report{}
	visited := map[string]bool{initialURL: true}

	for next := first.Next; next != ""; {
		if visited[next] {
			log.Warn().Str("cursor", redactURL(next)).Msg("Insights cursor repeated, ending pagination")
			break
		}
		visited[next] = true

		page, err := f.fetchPage(ctx, next)
		if err != nil {
			log.Warn().Err(err).Int("pages_kept", len(pages)).Msg("Follow-up insights page failed, keeping pages gathered so far")
			report.Truncated = true
			report.StopErr = err
			break
		}
		pages = append(pages, page)
		next = page.Next
	}

	report.Frame = Consolidate(pages, params.Fields)
	report.Pages = len(pages)
	report.FetchedAt = time.Now().UTC()

	log.Info().
		Int("pages", report.Pages).
		Int("rows", report.Frame.Len()).
		Int("columns", len(report.Frame.Columns())).
		Bool("truncated", report.Truncated).
		Msg("Insights report consolidated")
	return report, nil
}

func (f *reportFetcher) fetchPage(ctx context.Context, rawURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("failed to create request: %w", redactError(err))
	}
	req.Header.Set("Authorization", "Bearer "+f.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("insights request failed: %w", redactError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Page{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	page, err := decodePage(body)
	if err != nil {
		return Page{}, err
	}
	log.Debug().Str("url", redactURL(rawURL)).Int("rows", len(page.Rows)).Bool("has_next", page.Next != "").Msg("Fetched insights page")
	return page, nil
}

// redactURL strips the query string, which carries the access token on cursor URLs.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	u.RawQuery = ""
	return u.String()
}

// redactError strips the query string from the URL a *url.Error carries. The error ends up in
// logs, Report.StopErr and API responses.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactURL(urlErr.URL)
	}
	return err
}

// IsAPIError reports whether err carries a non-success API response and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
