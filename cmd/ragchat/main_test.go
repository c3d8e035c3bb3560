package main

import (
	"testing"

	"rag-chat/internal/app"
)

func TestApplyEnvOverrides_BaseURLFromEnv(t *testing.T) {
	t.Setenv("RAGCHAT_BASE_URL", "http://localhost:9999")

	cfg := app.DefaultConfig()
	applyEnvOverrides(&cfg)

	if cfg.BaseURL != "http://localhost:9999" {
		t.Fatalf("base URL = %q, want %q", cfg.BaseURL, "http://localhost:9999")
	}
}

func TestApplyEnvOverrides_EmptyEnvKeepsConfig(t *testing.T) {
	t.Setenv("RAGCHAT_BASE_URL", "")

	cfg := app.DefaultConfig()
	cfg.BaseURL = "http://from-config:8080"
	applyEnvOverrides(&cfg)

	if cfg.BaseURL != "http://from-config:8080" {
		t.Fatalf("base URL = %q, want %q", cfg.BaseURL, "http://from-config:8080")
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	if err := generateCompletion("powershell"); err == nil {
		t.Fatal("expected an error for an unsupported shell")
	}
}
