package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testAuth(t *testing.T, handler http.HandlerFunc) (*AuthService, *MemoryStorage) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := NewMemoryStorage()
	return NewAuthService(NewAPIClient(srv.URL, 0), store, NewLogger(io.Discard)), store
}

func TestLoginSuccessPopulatesIdentityAndStorage(t *testing.T) {
	auth, store := testAuth(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(LoginResponse{
			Status:    StatusSuccess,
			Message:   "welcome",
			UserToken: "T1",
			IsAdmin:   true,
		})
	})

	resp := auth.Login(context.Background(), "a@b.com")
	if resp.Status != StatusSuccess || resp.UserToken != "T1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !auth.IsLoggedIn() {
		t.Fatal("expected logged-in identity")
	}
	if !auth.IsAdmin() {
		t.Fatal("expected admin flag")
	}
	if auth.UserEmail() != "a@b.com" || auth.Token() != "T1" {
		t.Fatalf("identity mismatch: %q %q", auth.UserEmail(), auth.Token())
	}

	wantStored := map[string]string{
		storageKeyToken:   "T1",
		storageKeyEmail:   "a@b.com",
		storageKeyIsAdmin: "true",
	}
	for k, want := range wantStored {
		got, ok := store.Get(k)
		if !ok || got != want {
			t.Errorf("storage[%s] = %q (ok=%v), want %q", k, got, ok, want)
		}
	}
}

func TestLoginSuccessWithoutTokenIsNotPersisted(t *testing.T) {
	auth, store := testAuth(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(LoginResponse{Status: StatusSuccess, Message: "odd"})
	})

	resp := auth.Login(context.Background(), "a@b.com")
	if resp.Status != StatusSuccess {
		t.Fatalf("response should be returned unchanged: %+v", resp)
	}
	if auth.IsLoggedIn() {
		t.Fatal("empty token must not authenticate")
	}
	if _, ok := store.Get(storageKeyToken); ok {
		t.Fatal("nothing should be persisted")
	}
}

func TestLoginCollapsesFailuresIntoFailPayload(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{"))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auth, _ := testAuth(t, tc.handler)
			resp := auth.Login(context.Background(), "a@b.com")
			if resp.Status != StatusFail {
				t.Fatalf("status = %q, want fail", resp.Status)
			}
			if !strings.Contains(resp.Message, "Login failed") {
				t.Fatalf("message = %q", resp.Message)
			}
			if resp.UserToken != "" || resp.IsAdmin {
				t.Fatalf("synthesized failure must carry no identity: %+v", resp)
			}
			if auth.IsLoggedIn() {
				t.Fatal("failed login must not authenticate")
			}
		})
	}
}

func TestLoginNetworkErrorCollapses(t *testing.T) {
	// Port is closed immediately; the request can never succeed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	auth := NewAuthService(NewAPIClient(srv.URL, 0), NewMemoryStorage(), NewLogger(io.Discard))
	resp := auth.Login(context.Background(), "a@b.com")
	if resp.Status != StatusFail {
		t.Fatalf("status = %q, want fail", resp.Status)
	}
}

func TestLogoutClearsIdentityAndIsIdempotent(t *testing.T) {
	auth, store := testAuth(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(LoginResponse{Status: StatusSuccess, UserToken: "T1", IsAdmin: true})
	})
	auth.Login(context.Background(), "a@b.com")

	auth.Logout()
	auth.Logout()

	if auth.IsLoggedIn() || auth.IsAdmin() || auth.UserEmail() != "" {
		t.Fatal("logout must clear the identity")
	}
	for _, k := range []string{storageKeyToken, storageKeyEmail, storageKeyIsAdmin} {
		if _, ok := store.Get(k); ok {
			t.Errorf("storage key %s should be gone", k)
		}
	}
}

func TestRestoreSessionRequiresTokenAndEmail(t *testing.T) {
	tests := []struct {
		name      string
		stored    map[string]string
		want      bool
		wantAdmin bool
	}{
		{name: "empty storage", stored: map[string]string{}, want: false},
		{name: "token only", stored: map[string]string{storageKeyToken: "T1"}, want: false},
		{name: "email only", stored: map[string]string{storageKeyEmail: "a@b.com"}, want: false},
		{
			name:   "token and email, no admin flag",
			stored: map[string]string{storageKeyToken: "T1", storageKeyEmail: "a@b.com"},
			want:   true,
		},
		{
			name: "admin true",
			stored: map[string]string{
				storageKeyToken: "T1", storageKeyEmail: "a@b.com", storageKeyIsAdmin: "true",
			},
			want:      true,
			wantAdmin: true,
		},
		{
			name: "admin malformed",
			stored: map[string]string{
				storageKeyToken: "T1", storageKeyEmail: "a@b.com", storageKeyIsAdmin: "yes please",
			},
			want: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStorage()
			for k, v := range tc.stored {
				_ = store.Set(k, v)
			}
			auth := NewAuthService(NewAPIClient("http://localhost:0", 0), store, NewLogger(io.Discard))

			got := auth.RestoreSession()
			if got != tc.want {
				t.Fatalf("RestoreSession() = %v, want %v", got, tc.want)
			}
			if got {
				if auth.Token() != tc.stored[storageKeyToken] || auth.UserEmail() != tc.stored[storageKeyEmail] {
					t.Fatal("restored identity mismatch")
				}
				if auth.IsAdmin() != tc.wantAdmin {
					t.Fatalf("IsAdmin() = %v, want %v", auth.IsAdmin(), tc.wantAdmin)
				}
			} else if auth.IsLoggedIn() {
				t.Fatal("failed restore must leave the identity empty")
			}
		})
	}
}
