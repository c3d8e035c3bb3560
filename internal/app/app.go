package app

import (
	"context"
	"time"
)

// Application wires the three state holders together for the cmd and tui
// layers: identity (Auth), transcript and session id (Conv), and the admin
// directory operation (Users). No component here depends on the UI.
type Application struct {
	Config Config
	Logger *Logger
	Client *APIClient
	Auth   *AuthService
	Conv   *Conversation
	Users  *UserDirectory
}

func NewApplication(cfg Config) *Application {
	logger := NewLogger(DefaultLogWriter())
	client := NewAPIClient(cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second)
	store := NewFileStorage("")

	return &Application{
		Config: cfg,
		Logger: logger,
		Client: client,
		Auth:   NewAuthService(client, store, logger),
		Conv:   NewConversation(client, logger),
		Users:  NewUserDirectory(client, logger),
	}
}

// SendMessage records text as a user message and exchanges it with the agent.
// The user message lands in the transcript before the network call, so it is
// visible even when the exchange fails.
func (a *Application) SendMessage(ctx context.Context, text string) (MessageResponse, error) {
	a.Conv.AddUserMessage(text)
	return a.Conv.SendToAgent(ctx, text, a.Auth.UserEmail(), a.Auth.Token())
}

// ResetSession rotates the backend session while keeping the transcript.
func (a *Application) ResetSession(ctx context.Context) (StatusResponse, error) {
	return a.Conv.DeleteSession(ctx, a.Auth.UserEmail(), a.Auth.Token())
}

// AddUser registers a new user on behalf of the logged-in admin.
func (a *Application) AddUser(ctx context.Context, newEmail string, isAdmin bool) (StatusResponse, error) {
	return a.Users.AddUser(ctx, a.Auth.UserEmail(), newEmail, isAdmin, a.Auth.Token())
}

// Logout drops the identity and the transcript.
func (a *Application) Logout() {
	a.Auth.Logout()
	a.Conv.ClearHistory()
}
