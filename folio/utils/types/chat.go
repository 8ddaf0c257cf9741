// folio/utils/types/chat.go
package types

import "encoding/json"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat. Messages is kept raw so the
// handler can tell "missing" from "not an array".
type ChatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

type SessionInfo struct {
	ID                 string `json:"id"`
	QuestionsRemaining int    `json:"questionsRemaining"`
}

type QuotaExceededResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// UpstreamErrorResponse always carries details, even when the upstream body was empty.
type UpstreamErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// ChatSocketRequest is one frame read from the chat websocket.
type ChatSocketRequest struct {
	Token    string          `json:"token,omitempty"`
	Messages json.RawMessage `json:"messages"`
}

// ChatSocketResponse mirrors the HTTP status and body of POST /api/chat.
type ChatSocketResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}
