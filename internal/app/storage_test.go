package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStorage(path)

	if _, ok := store.Get("userToken"); ok {
		t.Fatal("missing key should not be found")
	}

	if err := store.Set("userToken", "T1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set("isAdmin", "false"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A fresh instance reads the same file: persistence across restarts.
	reopened := NewFileStorage(path)
	got, ok := reopened.Get("userToken")
	if !ok || got != "T1" {
		t.Fatalf("Get(userToken) = %q (ok=%v)", got, ok)
	}

	if err := reopened.Delete("userToken"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := reopened.Get("userToken"); ok {
		t.Fatal("deleted key should be gone")
	}
	if _, ok := reopened.Get("isAdmin"); !ok {
		t.Fatal("other keys should survive a delete")
	}

	// Deleting a missing key is a no-op.
	if err := reopened.Delete("userToken"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestFileStorageToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileStorage(path)

	if _, ok := store.Get("userToken"); ok {
		t.Fatal("corrupt file should read as empty")
	}
	if err := store.Set("userToken", "T1"); err != nil {
		t.Fatalf("set over corrupt file: %v", err)
	}
	if got, _ := store.Get("userToken"); got != "T1" {
		t.Fatalf("Get = %q", got)
	}
}

func TestMemoryStorage(t *testing.T) {
	store := NewMemoryStorage()
	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, ok := store.Get("k"); !ok || got != "v" {
		t.Fatalf("Get = %q (ok=%v)", got, ok)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.Get("k"); ok {
		t.Fatal("deleted key should be gone")
	}
}
