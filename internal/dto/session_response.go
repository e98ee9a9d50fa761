package dto

import "time"

type SessionResponse struct {
	SessionID   string    `json:"sessionId"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	Pages       int       `json:"pages"`
	Truncated   bool      `json:"truncated"`
	Warning     *string   `json:"warning,omitempty"` // set when pagination stopped early
	FetchedAt   time.Time `json:"fetchedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

type DatasetResponse struct {
	SessionID string          `json:"sessionId"`
	Columns   []string        `json:"columns"`
	Data      [][]interface{} `json:"data"` // [[val1, val2,...], [val1, val2,...]]
	Rows      int             `json:"rows"`
}

type SummaryResponse struct {
	SessionID string          `json:"sessionId"`
	Summary   string          `json:"summary"`
	Columns   []string        `json:"columns"` // first column is the statistic name
	Data      [][]interface{} `json:"data"`
}

type QueryResponse struct {
	SessionID    string  `json:"sessionId"`
	Question     string  `json:"question"`
	Answer       string  `json:"answer,omitempty"`
	ResultType   string  `json:"resultType"` // "answer", "error"
	Model        string  `json:"model,omitempty"`
	ErrorMessage *string `json:"error,omitempty"`
}

type HistoryResponse struct {
	SessionID string             `json:"sessionId"`
	Turns     []ConversationTurn `json:"turns"`
}

type ConversationTurn struct {
	Role    string `json:"role"`    // "user" | "model"
	Content string `json:"content"` // question | answer or error text
}
