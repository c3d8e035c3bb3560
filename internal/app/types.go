package app

import "time"

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// ChatMessage is a single transcript entry. Messages are immutable once
// appended; failed exchanges are recorded as agent-authored messages so the
// transcript is always self-describing.
type ChatMessage struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}

// LoginResponse is the backend's answer to POST /login. A synthesized failure
// carries an empty token and a false admin flag.
type LoginResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	UserToken string `json:"user_token"`
	IsAdmin   bool   `json:"is_admin"`
}

// MessageResponse is the backend's answer to POST /message_to_agent. The
// backend is authoritative for session identity: a response may carry a
// session id that differs from the one the client sent.
type MessageResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// StatusResponse is the shared {status, message} shape returned by
// DELETE /delete_session and POST /add_user.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type loginRequest struct {
	UserEmail string `json:"user_email"`
}

type agentMessageRequest struct {
	UserEmail      string `json:"user_email"`
	SessionID      string `json:"session_id"`
	MessageToAgent string `json:"message_to_agent"`
}

type deleteSessionRequest struct {
	UserEmail string `json:"user_email"`
	SessionID string `json:"session_id"`
}

type addUserRequest struct {
	UserEmail    string `json:"user_email"`
	NewUserEmail string `json:"new_user_email"`
	IsAdmin      bool   `json:"is_admin"`
}
