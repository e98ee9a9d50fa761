package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"ads-insights-assistant/internal/dataframe"
)

// Page is one decoded response of the insights endpoint. Next is empty when there is no
// further page.
type Page struct {
	Rows []map[string]any
	Next string
}

type rawPage struct {
	Data   []map[string]any `json:"data"`
	Paging json.RawMessage  `json:"paging"`
}

type rawPaging struct {
	Next any `json:"next"`
}

// decodePage parses a response body. An absent or null data list is an empty page. Paging
// that is absent or not shaped as {"next": "<url>"} means there is no next page.
func decodePage(body []byte) (Page, error) {
	var raw rawPage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Page{}, fmt.Errorf("failed to decode insights page: %w", err)
	}
	page := Page{Rows: raw.Data}
	if page.Rows == nil {
		page.Rows = []map[string]any{}
	}
	if len(raw.Paging) == 0 {
		return page, nil
	}
	var paging rawPaging
	if err := json.Unmarshal(raw.Paging, &paging); err != nil {
		return page, nil
	}
	if next, ok := paging.Next.(string); ok {
		page.Next = next
	}
	return page, nil
}

var (
	columnRenames  = map[string]string{"inline_link_clicks": "clicks", "date_start": "date"}
	droppedColumns = []string{"date_stop"}
)

// ExpectedColumns maps requested API fields to the column names of a consolidated table.
func ExpectedColumns(fields []string) []string {
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if isDropped(f) {
			continue
		}
		if renamed, ok := columnRenames[f]; ok {
			f = renamed
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func isDropped(col string) bool {
	for _, d := range droppedColumns {
		if d == col {
			return true
		}
	}
	return false
}

// Consolidate concatenates pages in order and normalizes the result: missing cells become 0,
// presentation renames and drops are applied, every requested field is present as a column
// even when no rows came back, and numeric strings become numbers.
func Consolidate(pages []Page, fields []string) *dataframe.Frame {
	frames := make([]*dataframe.Frame, 0, len(pages))
	for _, p := range pages {
		frames = append(frames, dataframe.FromRecords(p.Rows))
	}
	frame := dataframe.Concat(frames...)
	frame.FillMissing(0)
	Normalize(frame)

	expected := ExpectedColumns(fields)
	frame.EnsureColumns(0, expected...)
	frame.Reorder(expected...)
	if metrics := metricColumns(frame.Columns()); len(metrics) > 0 {
		frame.CoerceNumeric(metrics...)
	}
	return frame
}

// metricColumns leaves out identifier, name and date columns, which the API also returns as
// strings but which are not measurements.
func metricColumns(cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == "id" || c == "date" || strings.HasSuffix(c, "_id") || strings.HasSuffix(c, "_name") {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Normalize applies the presentation renames and drops. Applying it to an already
// normalized frame changes nothing.
func Normalize(frame *dataframe.Frame) {
	frame.Rename(columnRenames)
	frame.Drop(droppedColumns...)
}
