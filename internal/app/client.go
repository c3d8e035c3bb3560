package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL points at the production papers-RAG backend.
const DefaultBaseURL = "https://papers-rag-web-backend-1031636165462.us-central1.run.app"

// APIClient talks to the papers-RAG backend. It is a thin request/response
// mapper: any transport problem, non-2xx status or undecodable body comes back
// as an error, and the services above collapse those into fail payloads.
type APIClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewAPIClient builds a client for baseURL. A zero timeout means no timeout,
// which is the default behavior: a hung request hangs the calling action.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &APIClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) do(ctx context.Context, method, path, token string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP error: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid response body: %v", err)
	}
	return nil
}

func (c *APIClient) Login(ctx context.Context, email string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/login", "", loginRequest{UserEmail: email}, &resp)
	return resp, err
}

func (c *APIClient) MessageToAgent(ctx context.Context, token, email, sessionID, text string) (MessageResponse, error) {
	var resp MessageResponse
	req := agentMessageRequest{
		UserEmail:      email,
		SessionID:      sessionID,
		MessageToAgent: text,
	}
	err := c.do(ctx, http.MethodPost, "/message_to_agent", token, req, &resp)
	return resp, err
}

func (c *APIClient) DeleteSession(ctx context.Context, token, email, sessionID string) (StatusResponse, error) {
	var resp StatusResponse
	req := deleteSessionRequest{UserEmail: email, SessionID: sessionID}
	err := c.do(ctx, http.MethodDelete, "/delete_session", token, req, &resp)
	return resp, err
}

func (c *APIClient) AddUser(ctx context.Context, token, email, newEmail string, isAdmin bool) (StatusResponse, error) {
	var resp StatusResponse
	req := addUserRequest{UserEmail: email, NewUserEmail: newEmail, IsAdmin: isAdmin}
	err := c.do(ctx, http.MethodPost, "/add_user", token, req, &resp)
	return resp, err
}
