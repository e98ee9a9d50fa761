package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"ads-insights-assistant/config"
	"ads-insights-assistant/internal/util"
)

// Params is the query sent with the initial insights request. Follow-up requests use the
// cursor URL as returned and do not repeat these.
type Params struct {
	DatePreset         string   `json:"datePreset,omitempty"`
	Since              string   `json:"since,omitempty"` // overrides DatePreset together with Until
	Until              string   `json:"until,omitempty"`
	Level              string   `json:"level"`
	Fields             []string `json:"fields"`
	ActionReportTime   string   `json:"actionReportTime,omitempty"`
	AttributionWindows []string `json:"attributionWindows,omitempty"`
	TimeIncrement      string   `json:"timeIncrement,omitempty"`
}

func DefaultParams(cfg config.ReportConfig) Params {
	return Params{
		DatePreset:         cfg.DatePreset,
		Level:              cfg.Level,
		Fields:             append([]string(nil), cfg.Fields...),
		ActionReportTime:   cfg.ActionReportTime,
		AttributionWindows: append([]string(nil), cfg.AttributionWindows...),
		TimeIncrement:      cfg.TimeIncrement,
	}
}

// Validate normalizes Since and Until to YYYY-MM-DD and checks the window.
func (p *Params) Validate() error {
	if len(p.Fields) == 0 {
		return errors.New("at least one report field is required")
	}
	if (p.Since == "") != (p.Until == "") {
		return errors.New("since and until must be set together")
	}
	if p.Since == "" {
		if p.DatePreset == "" {
			return errors.New("either datePreset or since/until is required")
		}
		return nil
	}
	since, err := util.ParseDate(p.Since)
	if err != nil {
		return fmt.Errorf("invalid since: %w", err)
	}
	until, err := util.ParseDate(p.Until)
	if err != nil {
		return fmt.Errorf("invalid until: %w", err)
	}
	if until < since {
		return errors.New("until cannot be before since")
	}
	p.Since, p.Until = since, until
	return nil
}

// Values encodes the parameters as the reporting API expects them.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Since != "" && p.Until != "" {
		tr, _ := json.Marshal(map[string]string{"since": p.Since, "until": p.Until})
		v.Set("time_range", string(tr))
	} else if p.DatePreset != "" {
		v.Set("date_preset", p.DatePreset)
	}
	if p.Level != "" {
		v.Set("level", p.Level)
	}
	v.Set("fields", strings.Join(p.Fields, ","))
	if p.ActionReportTime != "" {
		v.Set("action_report_time", p.ActionReportTime)
	}
	if len(p.AttributionWindows) > 0 {
		v.Set("action_attribution_windows", strings.Join(p.AttributionWindows, ","))
	}
	if p.TimeIncrement != "" {
		v.Set("time_increment", p.TimeIncrement)
	}
	return v
}
