package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/funddeck/funddeck/internal/app"
	"github.com/funddeck/funddeck/internal/config"
	"github.com/funddeck/funddeck/internal/logging"
	"github.com/funddeck/funddeck/internal/logging/events"
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	events.App.Start(startupTracePayload(cfg))

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload bundles process context for the app.start trace entry:
// argv, resolved flags, and what the standard descriptors look like.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
		"tty":    probeTerminals(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	return payload
}

type ttyDetails struct {
	Detected *ttyProbe  `json:"detected,omitempty"`
	Probes   []ttyProbe `json:"probes"`
}

type ttyProbe struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// probeTerminals checks each standard descriptor for terminal support. The
// first one that reports a size becomes the detected entry; Bubble Tea does
// its own detection, this exists to explain sizing surprises from the log.
func probeTerminals() ttyDetails {
	details := ttyDetails{Probes: make([]ttyProbe, 0, 3)}
	for _, std := range []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	} {
		probe := probeTerminal(std.name, int(std.file.Fd()))
		if details.Detected == nil && probe.Width > 0 {
			detected := probe
			details.Detected = &detected
		}
		details.Probes = append(details.Probes, probe)
	}
	return details
}

func probeTerminal(name string, fd int) ttyProbe {
	probe := ttyProbe{Name: name}
	if fd < 0 || !term.IsTerminal(fd) {
		return probe
	}
	probe.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		probe.Error = err.Error()
		return probe
	}
	probe.Width = width
	probe.Height = height
	return probe
}
