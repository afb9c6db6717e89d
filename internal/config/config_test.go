package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.BaseURL != "http://127.0.0.1:8600" {
		t.Fatalf("base URL = %q", cfg.App.BaseURL)
	}
	if cfg.App.RootTab != "funding" {
		t.Fatalf("root tab = %q", cfg.App.RootTab)
	}
	if cfg.App.PollInterval != 750*time.Millisecond {
		t.Fatalf("poll interval = %v", cfg.App.PollInterval)
	}
	if cfg.App.SearchDebounce != 250*time.Millisecond {
		t.Fatalf("debounce = %v", cfg.App.SearchDebounce)
	}
	if cfg.App.QuitServer {
		t.Fatal("quit-server should default off")
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := LoadArgs(
		[]string{"-base-url", "http://flag:9000/", "-tab", "entries", "-quit-server"},
		[]string{"FUNDDECK_BASE_URL=http://env:8000", "FUNDDECK_ROOT_TAB=vendors"},
	)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.BaseURL != "http://flag:9000" {
		t.Fatalf("base URL = %q, want flag value with trailing slash stripped", cfg.App.BaseURL)
	}
	if cfg.App.RootTab != "entries" {
		t.Fatalf("root tab = %q", cfg.App.RootTab)
	}
	if !cfg.App.QuitServer {
		t.Fatal("quit-server flag not applied")
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "funddeck.yaml")
	if err := os.WriteFile(file, []byte("base_url: http://file:7000\npoll_interval_ms: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadArgs(nil, []string{
		"FUNDDECK_CONFIG=" + file,
		"FUNDDECK_BASE_URL=http://env:8000",
	})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.BaseURL != "http://env:8000" {
		t.Fatalf("base URL = %q, want env to beat file", cfg.App.BaseURL)
	}
	if cfg.App.PollInterval != 100*time.Millisecond {
		t.Fatalf("poll interval = %v, want file value", cfg.App.PollInterval)
	}
}

func TestMalformedConfigFileErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(file, []byte(":::"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadArgs(nil, []string{"FUNDDECK_CONFIG=" + file}); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestRejectsBadNumbers(t *testing.T) {
	if _, err := LoadArgs([]string{"-width", "-1"}, nil); err == nil {
		t.Fatal("negative width accepted")
	}
	if _, err := LoadArgs([]string{"-poll-interval-ms", "0"}, nil); err == nil {
		t.Fatal("zero poll interval accepted")
	}
}

func TestValidate(t *testing.T) {
	cfg, _ := LoadArgs(nil, nil)
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg.App.BaseURL = "ftp://nope"
	if err := Validate(cfg); err == nil {
		t.Fatal("non-http base URL accepted")
	}
}
