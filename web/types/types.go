package types

import (
	"time"
)

// Message senders for chat sessions.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message represents a single message in a chat session. Messages are
// immutable once created and live only as long as the session.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionState names the states of the chat session lifecycle.
type SessionState string

const (
	// SessionActive is the normal state: questions accumulate messages.
	SessionActive SessionState = "active"
	// SessionReset marks a session retired by an explicit new-calculation
	// signal; the next question gets a fresh session id.
	SessionReset SessionState = "reset"
)

// ChatSession holds the transient conversation state for one chat panel.
type ChatSession struct {
	ID         string
	Messages   []Message
	State      SessionState
	CreatedAt  time.Time
	LastActive time.Time
}

// ROIRequest is the JSON body of a ROI calculation call.
type ROIRequest struct {
	Budget    string   `json:"budget"`
	Employees string   `json:"employees"`
	Duration  string   `json:"duration"`
	Files     []string `json:"files"`
}

// AskContext carries the calculator state the frontend sends alongside a
// chat question. NewCalculation is the single explicit signal that retires
// the current session.
type AskContext struct {
	Budget         string   `json:"budget,omitempty"`
	Employees      string   `json:"employees,omitempty"`
	Duration       string   `json:"duration,omitempty"`
	LastResponse   string   `json:"last_response,omitempty"`
	Files          []string `json:"files,omitempty"`
	NewCalculation bool     `json:"new_calculation,omitempty"`
}

// AskRequest is the JSON body of a conversational ask call.
type AskRequest struct {
	Question  string     `json:"question"`
	Context   AskContext `json:"context"`
	SessionID string     `json:"session_id"`
}

// GenerateRequest is the legacy prompt passthrough body.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// DocumentResult is the per-document outcome of an upload.
type DocumentResult struct {
	FileName    string `json:"file_name"`
	StoredName  string `json:"stored_name"`
	ContentType string `json:"content_type,omitempty"`
	Text        string `json:"text,omitempty"`
	Error       string `json:"error,omitempty"`
}
