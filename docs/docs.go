// Package docs holds the OpenAPI document served at /swagger. Regenerate with swag init -g cmd/main.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/sessions": {
            "post": {
                "description": "Fetches every page of the ad insights report for the configured account, consolidates it into one table and stores it under a new session.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Fetch a report and open a session",
                "parameters": [
                    {
                        "description": "Report window overrides",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/dto.CreateSessionRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Session created", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "400": {"description": "Invalid report parameters", "schema": {"$ref": "#/definitions/model.Response"}},
                    "502": {"description": "Initial report request failed", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/sessions/{id}": {
            "delete": {
                "tags": ["sessions"],
                "summary": "Close a session",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/sessions/{id}/dataset": {
            "get": {
                "description": "Returns the session's consolidated report table. With format=text the table is rendered as plain text.",
                "produces": ["application/json", "text/plain"],
                "tags": ["sessions"],
                "summary": "Show dataset",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Set to text for a plain text rendering", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DatasetResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/sessions/{id}/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "List questions asked in a session",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HistoryResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/sessions/{id}/query": {
            "post": {
                "description": "Summarizes the session's table, sends the summary and the question to the configured chat model and returns its answer unmodified.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["query"],
                "summary": "Ask a question about the dataset",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Question about the dataset",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.QueryRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Answer, or an error message from the model call", "schema": {"$ref": "#/definitions/dto.QueryResponse"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/model.Response"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/sessions/{id}/refresh": {
            "post": {
                "description": "Re-runs the report request with the session's parameters and replaces its table.",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Re-fetch a session's report",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/model.Response"}},
                    "502": {"description": "Report request failed", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/api/v1/sessions/{id}/summary": {
            "get": {
                "description": "Returns the per-column descriptive statistics of the session's table.",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Describe the dataset",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SummaryResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Response"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ConversationTurn": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "dto.CreateSessionRequest": {
            "type": "object",
            "properties": {
                "datePreset": {"type": "string", "example": "last_7d"},
                "fields": {"type": "array", "items": {"type": "string"}},
                "level": {"type": "string", "example": "ad"},
                "since": {"type": "string", "example": "2024-05-01"},
                "timeIncrement": {"type": "string", "example": "1"},
                "until": {"type": "string", "example": "2024-05-07"}
            }
        },
        "dto.DatasetResponse": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "data": {"type": "array", "items": {"type": "array", "items": {}}},
                "rows": {"type": "integer"},
                "sessionId": {"type": "string"}
            }
        },
        "dto.HistoryResponse": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "turns": {"type": "array", "items": {"$ref": "#/definitions/dto.ConversationTurn"}}
            }
        },
        "dto.QueryRequest": {
            "type": "object",
            "properties": {
                "question": {"type": "string", "example": "What was total spend?"}
            }
        },
        "dto.QueryResponse": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "error": {"type": "string"},
                "model": {"type": "string"},
                "question": {"type": "string"},
                "resultType": {"type": "string"},
                "sessionId": {"type": "string"}
            }
        },
        "dto.SessionResponse": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string"},
                "fetchedAt": {"type": "string"},
                "pages": {"type": "integer"},
                "refreshedAt": {"type": "string"},
                "rows": {"type": "integer"},
                "sessionId": {"type": "string"},
                "truncated": {"type": "boolean"},
                "warning": {"type": "string"}
            }
        },
        "dto.SummaryResponse": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "data": {"type": "array", "items": {"type": "array", "items": {}}},
                "sessionId": {"type": "string"},
                "summary": {"type": "string"}
            }
        },
        "model.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Ads Insights Assistant API",
	Description:      "Fetches ad performance reports into per-session tables and answers natural language questions about them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
