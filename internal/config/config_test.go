package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"FORMKIT_MAX_FILE_SIZE",
	"FORMKIT_ALLOWED_TYPES",
	"FORMKIT_PREVIEW_CACHE",
	"FORMKIT_LOG_LEVEL",
}

// clearEnv unsets every key for the duration of the test; t.Setenv restores
// the previous state on cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	want := Config{MaxFileSize: DefaultMaxFileSize, PreviewCache: DefaultPreviewCache, LogLevel: "info"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Types(); got != nil {
		t.Fatalf("expected no allowed types, got %v", got)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORMKIT_MAX_FILE_SIZE", "2048")
	t.Setenv("FORMKIT_ALLOWED_TYPES", "image/*, application/pdf,,")
	t.Setenv("FORMKIT_PREVIEW_CACHE", "0")
	t.Setenv("FORMKIT_LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.MaxFileSize != 2048 || cfg.PreviewCache != 0 {
		t.Fatalf("unexpected sizes: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"image/*", "application/pdf"}, cfg.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	level, err := cfg.Level()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v (%v)", level, err)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"negative size":  {"FORMKIT_MAX_FILE_SIZE", "-1"},
		"malformed size": {"FORMKIT_MAX_FILE_SIZE", "lots"},
		"negative cache": {"FORMKIT_PREVIEW_CACHE", "-5"},
		"unknown level":  {"FORMKIT_LOG_LEVEL", "loud"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("FORMKIT_LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), "formkit.env")
	content := "FORMKIT_PREVIEW_CACHE=8\nFORMKIT_LOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PreviewCache != 8 {
		t.Fatalf("expected cache from file, got %d", cfg.PreviewCache)
	}
	// variables already present win over the file
	if cfg.LogLevel != "error" {
		t.Fatalf("expected existing variable to win, got %q", cfg.LogLevel)
	}
}

func TestLoad_MissingNamedFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}
