package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestAddUserReturnsBackendPayloadVerbatim(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/add_user" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer T1" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_ = json.NewEncoder(w).Encode(StatusResponse{Status: StatusSuccess, Message: "user added"})
	}))
	t.Cleanup(srv.Close)

	dir := NewUserDirectory(NewAPIClient(srv.URL, 0), NewLogger(io.Discard))
	resp, err := dir.AddUser(context.Background(), "admin@b.com", "new@b.com", true, "T1")
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	if resp.Status != StatusSuccess || resp.Message != "user added" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gotBody["user_email"] != "admin@b.com" || gotBody["new_user_email"] != "new@b.com" || gotBody["is_admin"] != true {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}

func TestAddUserCollapsesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	dir := NewUserDirectory(NewAPIClient(srv.URL, 0), NewLogger(io.Discard))
	resp, err := dir.AddUser(context.Background(), "admin@b.com", "new@b.com", false, "T1")
	if err != nil {
		t.Fatalf("transport failures must not surface as errors: %v", err)
	}
	if resp.Status != StatusFail {
		t.Fatalf("status = %q, want fail", resp.Status)
	}
	if !strings.Contains(resp.Message, "Error adding user") {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestAddUserRejectsMissingIdentityBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	dir := NewUserDirectory(NewAPIClient(srv.URL, 0), NewLogger(io.Discard))
	if _, err := dir.AddUser(context.Background(), "admin@b.com", "new@b.com", false, ""); err != ErrNotAuthenticated {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
	if _, err := dir.AddUser(context.Background(), "", "new@b.com", false, "T1"); err != ErrNotAuthenticated {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no network calls, got %d", calls.Load())
	}
}
