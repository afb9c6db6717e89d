package app

import "time"

// Config captures the runtime knobs the application model needs.
type Config struct {
	// BaseURL is the backend API root, e.g. http://127.0.0.1:8600.
	BaseURL string
	// Width and Height override the detected terminal size; 0 means detect.
	Width  int
	Height int
	// ShowFooter enables the key-hint row.
	ShowFooter bool
	// Verbose prints success messages for actions.
	Verbose bool
	// RootTab is the tab opened on startup.
	RootTab string
	// PollInterval is the background-job poll cadence.
	PollInterval time.Duration
	// SearchDebounce is the tag/filter search debounce window.
	SearchDebounce time.Duration
	// QuitServer POSTs the backend quit endpoint on exit.
	QuitServer bool
}
