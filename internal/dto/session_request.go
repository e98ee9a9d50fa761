package dto

// CreateSessionRequest overrides the configured report window for a new session.
// Empty fields fall back to configuration.
type CreateSessionRequest struct {
	DatePreset    string   `json:"datePreset,omitempty" example:"last_7d"`
	Since         string   `json:"since,omitempty" example:"2024-05-01"`
	Until         string   `json:"until,omitempty" example:"2024-05-07"`
	Level         string   `json:"level,omitempty" binding:"omitempty,oneof=account campaign adset ad" example:"ad"`
	TimeIncrement string   `json:"timeIncrement,omitempty" example:"1"`
	Fields        []string `json:"fields,omitempty"`
}

type QueryRequest struct {
	Question string `json:"question" example:"What was total spend?"`
}
