package main

import (
	"testing"
	"time"

	"github.com/funddeck/funddeck/internal/app"
	"github.com/funddeck/funddeck/internal/config"
)

func TestProbeTerminalsIncludesStandardDescriptors(t *testing.T) {
	info := probeTerminals()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			BaseURL:        "http://127.0.0.1:8600",
			Width:          80,
			Height:         24,
			ShowFooter:     true,
			Verbose:        true,
			RootTab:        "funding",
			PollInterval:   750 * time.Millisecond,
			SearchDebounce: 250 * time.Millisecond,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"baseURL": "http://127.0.0.1:8600",
			"width":   "80",
			"height":  "24",
			"footer":  "true",
			"verbose": "true",
		},
		Args: []string{"--base-url", "http://127.0.0.1:8600"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["baseURL"] != "http://127.0.0.1:8600" {
		t.Fatalf("expected baseURL flag, got %v", flagsValue["baseURL"])
	}
	if flagsValue["width"] != "80" {
		t.Fatalf("expected width 80, got %v", flagsValue["width"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}
