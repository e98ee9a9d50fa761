package model

import "time"

const (
	QueryStatusAnswered = "answered"
	QueryStatusFailed   = "failed"
)

// QueryEvent records one question asked against a session's report.
type QueryEvent struct {
	SessionID    string    `json:"sessionId"`
	Question     string    `json:"question"`
	Status       string    `json:"status"`
	AnswerLength int       `json:"answerLength"`
	Error        string    `json:"error,omitempty"`
	Model        string    `json:"model"`
	ReportRows   int       `json:"reportRows"`
	OccurredAt   time.Time `json:"occurredAt"`
}
