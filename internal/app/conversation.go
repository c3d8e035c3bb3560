package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conversation owns the session identifier and the ordered, append-only chat
// history. The session id is generated locally and may be overwritten by the
// backend on any successful exchange.
//
// The browser original got away with no locking because the event loop plus
// disabled buttons serialized everything; here a state mutex guards the fields
// and a separate request lock keeps at most one exchange in flight.
type Conversation struct {
	client *APIClient
	logger *Logger

	sendMu sync.Mutex // serializes backend exchanges

	mu        sync.Mutex // guards sessionID and history
	sessionID string
	history   []ChatMessage
}

func NewConversation(client *APIClient, logger *Logger) *Conversation {
	return &Conversation{
		client:    client,
		logger:    logger,
		sessionID: newSessionID(),
	}
}

// newSessionID builds an opaque, locally-unique id. Uniqueness is best-effort:
// collisions only matter until the backend assigns its own id.
func newSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

// AddUserMessage appends the user's text to the history. Always succeeds.
func (c *Conversation) AddUserMessage(text string) {
	c.append(text, true)
}

func (c *Conversation) append(text string, isUser bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, ChatMessage{
		Text:      text,
		IsUser:    isUser,
		Timestamp: time.Now(),
	})
}

// SendToAgent posts text to the backend and appends the reply to the history.
// Failures do not surface as errors: both transport problems and fail-status
// responses become agent-authored transcript entries, and the (possibly
// synthesized) response is returned to the caller. The one exception is a
// missing identity, which is rejected before any network I/O.
func (c *Conversation) SendToAgent(ctx context.Context, text, email, token string) (MessageResponse, error) {
	if token == "" || email == "" {
		return MessageResponse{}, ErrNotAuthenticated
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()

	resp, err := c.client.MessageToAgent(ctx, token, email, sessionID, text)
	if err != nil {
		c.logger.Error("message exchange failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		synth := MessageResponse{
			Status:    StatusFail,
			Message:   "Error communicating with agent: " + err.Error(),
			SessionID: sessionID,
		}
		c.append(synth.Message, false)
		return synth, nil
	}

	// The backend is authoritative for session identity.
	if resp.SessionID != "" && resp.SessionID != sessionID {
		c.logger.Info("session id reassigned", map[string]interface{}{
			"old": sessionID,
			"new": resp.SessionID,
		})
		c.mu.Lock()
		c.sessionID = resp.SessionID
		c.mu.Unlock()
	}

	if resp.Status == StatusSuccess {
		c.append(resp.Message, false)
	} else {
		msg := resp.Message
		if msg == "" {
			msg = "The agent returned a failure with no details."
		}
		c.append(msg, false)
	}
	return resp, nil
}

// DeleteSession asks the backend to drop the current session. On success the
// local id is rotated while the transcript is kept; on failure both are left
// untouched.
func (c *Conversation) DeleteSession(ctx context.Context, email, token string) (StatusResponse, error) {
	if token == "" || email == "" {
		return StatusResponse{}, ErrNotAuthenticated
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()

	resp, err := c.client.DeleteSession(ctx, token, email, sessionID)
	if err != nil {
		c.logger.Error("delete session failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return StatusResponse{
			Status:  StatusFail,
			Message: "Error deleting session: " + err.Error(),
		}, nil
	}

	if resp.Status == StatusSuccess {
		c.mu.Lock()
		c.sessionID = newSessionID()
		c.mu.Unlock()
	}
	return resp, nil
}

// History returns a snapshot of the transcript. Mutating the returned slice
// does not affect the conversation.
func (c *Conversation) History() []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChatMessage, len(c.history))
	copy(out, c.history)
	return out
}

// ClearHistory empties the transcript and starts a fresh session id. Used on
// logout.
func (c *Conversation) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
	c.sessionID = newSessionID()
}

func (c *Conversation) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// SetSessionID overrides the current session id. Test/debug hook.
func (c *Conversation) SetSessionID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
}
