package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/funddeck/funddeck/internal/app"
)

// Config captures runtime configuration for the application. Precedence is
// flags over environment over config file over defaults.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envBaseURL    = "FUNDDECK_BASE_URL"
	envWidth      = "FUNDDECK_WIDTH"
	envHeight     = "FUNDDECK_HEIGHT"
	envShowFooter = "FUNDDECK_FOOTER"
	envVerbose    = "FUNDDECK_VERBOSE"
	envTrace      = "FUNDDECK_TRACE"
	envLogFile    = "FUNDDECK_LOG_FILE"
	envRootTab    = "FUNDDECK_ROOT_TAB"
	envPollMs     = "FUNDDECK_POLL_INTERVAL_MS"
	envDebounceMs = "FUNDDECK_SEARCH_DEBOUNCE_MS"
	envQuit       = "FUNDDECK_QUIT_SERVER"
	envConfigFile = "FUNDDECK_CONFIG"

	defaultBaseURL    = "http://127.0.0.1:8600"
	defaultPollMs     = 750
	defaultDebounceMs = 250
	defaultRootTab    = "funding"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	file, err := loadFile(env)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("funddeck", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	baseURL := fs.String("base-url", envOrDefault(env, envBaseURL, file.str("base_url", defaultBaseURL)), "backend API root URL")
	width := fs.Int("width", envOrInt(env, envWidth, file.num("width", 0)), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, file.num("height", 0)), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, file.flag("footer", false)), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, file.flag("trace", false)), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, file.flag("verbose", false)), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.str("log_file", "")), "path to the log file")
	rootTab := fs.String("tab", envOrDefault(env, envRootTab, file.str("root_tab", defaultRootTab)), "tab to open on startup")
	pollMs := fs.Int("poll-interval-ms", envOrInt(env, envPollMs, file.num("poll_interval_ms", defaultPollMs)), "background job poll interval in milliseconds")
	debounceMs := fs.Int("search-debounce-ms", envOrInt(env, envDebounceMs, file.num("search_debounce_ms", defaultDebounceMs)), "search debounce window in milliseconds")
	quit := fs.Bool("quit-server", envOrBool(env, envQuit, file.flag("quit_server", false)), "ask the backend to shut down when the UI exits")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *pollMs <= 0 {
		return Config{}, fmt.Errorf("poll-interval-ms must be > 0 (got %d)", *pollMs)
	}
	if *debounceMs < 0 {
		return Config{}, fmt.Errorf("search-debounce-ms must be >= 0 (got %d)", *debounceMs)
	}

	cfg := Config{
		App: app.Config{
			BaseURL:        strings.TrimRight(*baseURL, "/"),
			Width:          *width,
			Height:         *height,
			ShowFooter:     *footer,
			Verbose:        *verbose,
			RootTab:        *rootTab,
			PollInterval:   time.Duration(*pollMs) * time.Millisecond,
			SearchDebounce: time.Duration(*debounceMs) * time.Millisecond,
			QuitServer:     *quit,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
		},
		Flags: map[string]string{
			"baseURL":    *baseURL,
			"width":      strconv.Itoa(*width),
			"height":     strconv.Itoa(*height),
			"footer":     strconv.FormatBool(*footer),
			"trace":      strconv.FormatBool(*trace),
			"verbose":    strconv.FormatBool(*verbose),
			"logFile":    *logFile,
			"rootTab":    *rootTab,
			"pollMs":     strconv.Itoa(*pollMs),
			"debounceMs": strconv.Itoa(*debounceMs),
			"quitServer": strconv.FormatBool(*quit),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// fileValues is the YAML config-file layer, read with viper. A missing file
// is fine; a malformed one is an error.
type fileValues struct {
	v *viper.Viper
}

func loadFile(env map[string]string) (fileValues, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path, ok := env[envConfigFile]; ok && strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fileValues{}, fmt.Errorf("read config %s: %w", path, err)
		}
		return fileValues{v: v}, nil
	}
	v.SetConfigName("funddeck")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.config/funddeck")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fileValues{}, nil
		}
		return fileValues{}, fmt.Errorf("read config: %w", err)
	}
	return fileValues{v: v}, nil
}

func (f fileValues) str(key, fallback string) string {
	if f.v == nil || !f.v.IsSet(key) {
		return fallback
	}
	return f.v.GetString(key)
}

func (f fileValues) num(key string, fallback int) int {
	if f.v == nil || !f.v.IsSet(key) {
		return fallback
	}
	return f.v.GetInt(key)
}

func (f fileValues) flag(key string, fallback bool) bool {
	if f.v == nil || !f.v.IsSet(key) {
		return fallback
	}
	return f.v.GetBool(key)
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if cfg.App.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if !strings.HasPrefix(cfg.App.BaseURL, "http://") && !strings.HasPrefix(cfg.App.BaseURL, "https://") {
		return fmt.Errorf("base URL must be http(s): %s", cfg.App.BaseURL)
	}
	return nil
}
