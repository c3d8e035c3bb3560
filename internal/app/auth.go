package app

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// ErrNotAuthenticated is returned when a protected action is attempted without
// a stored identity. It is a precondition failure surfaced to the caller; no
// network request is issued.
var ErrNotAuthenticated = errors.New("not authenticated")

// Storage keys. The three fields persist independently; restore succeeds only
// when both token and email are present.
const (
	storageKeyToken   = "userToken"
	storageKeyEmail   = "userEmail"
	storageKeyIsAdmin = "isAdmin"
)

// AuthService holds the authenticated identity: token, email and admin flag.
// Login and Logout are the only operations that touch durable storage.
type AuthService struct {
	client *APIClient
	store  Storage
	logger *Logger

	mu      sync.Mutex
	token   string
	email   string
	isAdmin bool
}

func NewAuthService(client *APIClient, store Storage, logger *Logger) *AuthService {
	return &AuthService{client: client, store: store, logger: logger}
}

// Login exchanges an email for a token. On a success response carrying a
// non-empty token the identity is kept in memory and persisted; the backend
// response is returned unchanged either way. Transport and protocol failures
// come back as a fail payload, never as an error.
func (a *AuthService) Login(ctx context.Context, email string) LoginResponse {
	resp, err := a.client.Login(ctx, email)
	if err != nil {
		a.logger.Error("login failed", map[string]interface{}{"error": err.Error()})
		return LoginResponse{
			Status:  StatusFail,
			Message: "Login failed: " + err.Error(),
		}
	}

	if resp.Status == StatusSuccess && resp.UserToken != "" {
		a.mu.Lock()
		a.token = resp.UserToken
		a.email = email
		a.isAdmin = resp.IsAdmin
		a.mu.Unlock()

		_ = a.store.Set(storageKeyToken, resp.UserToken)
		_ = a.store.Set(storageKeyEmail, email)
		_ = a.store.Set(storageKeyIsAdmin, strconv.FormatBool(resp.IsAdmin))
		a.logger.Info("logged in", map[string]interface{}{"email": email, "admin": resp.IsAdmin})
	}
	return resp
}

// Logout clears the in-memory and persisted identity. Idempotent.
func (a *AuthService) Logout() {
	a.mu.Lock()
	a.token = ""
	a.email = ""
	a.isAdmin = false
	a.mu.Unlock()

	_ = a.store.Delete(storageKeyToken)
	_ = a.store.Delete(storageKeyEmail)
	_ = a.store.Delete(storageKeyIsAdmin)
}

// RestoreSession repopulates the identity from storage. It succeeds only when
// both token and email are present; the admin flag defaults to false when
// absent or malformed. There is no partial restoration.
func (a *AuthService) RestoreSession() bool {
	token, _ := a.store.Get(storageKeyToken)
	email, _ := a.store.Get(storageKeyEmail)
	admin, _ := a.store.Get(storageKeyIsAdmin)

	if token == "" || email == "" {
		return false
	}

	a.mu.Lock()
	a.token = token
	a.email = email
	a.isAdmin = admin == "true"
	a.mu.Unlock()
	return true
}

func (a *AuthService) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

func (a *AuthService) UserEmail() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.email
}

func (a *AuthService) IsAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isAdmin
}

// IsLoggedIn reports whether a token is present.
func (a *AuthService) IsLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token != ""
}
