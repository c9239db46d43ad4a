package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/treectl/internal/app"
	"github.com/atomicstack/treectl/internal/backend"
	"github.com/atomicstack/treectl/internal/event"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envBackend = "TREECTL_BACKEND"
	envSocket  = "TREECTL_SOCKET"
	envTick    = "TREECTL_TICK"
	envPoll    = "TREECTL_POLL"
	envStrict  = "TREECTL_STRICT"
	envPrint   = "TREECTL_PRINT"
	envWidth   = "TREECTL_WIDTH"
	envTrace   = "TREECTL_TRACE"
	envLogFile = "TREECTL_LOG_FILE"
	envTmux    = "TMUX"
)

// HelpRequest is returned by LoadArgs for -h and -help. Usage holds the flag
// summary.
type HelpRequest struct {
	Usage string
}

func (h *HelpRequest) Error() string { return flag.ErrHelp.Error() }

func (h *HelpRequest) Unwrap() error { return flag.ErrHelp }

// LoadArgs parses CLI arguments over environment variables.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("treectl", flag.ContinueOnError)
	usage := new(strings.Builder)
	fs.SetOutput(usage)

	backendName := fs.String("backend", envOrDefault(env, envBackend, defaultBackend(env)), "window manager to display: i3 or tmux")
	socket := fs.String("socket", envOrDefault(env, envSocket, ""), "path to the window manager socket (overrides environment detection)")
	tick := fs.Duration("tick", envOrDuration(env, envTick, event.DefaultTickRate), "interval between timer events")
	poll := fs.Duration("poll", envOrDuration(env, envPoll, backend.DefaultInterval), "tmux change polling interval")
	strict := fs.Bool("strict", envOrBool(env, envStrict, false), "treat command and refresh failures as fatal")
	printOnce := fs.Bool("print", envOrBool(env, envPrint, false), "print the tree once and exit")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "print width in cells (0 uses terminal width)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, &HelpRequest{Usage: usage.String()}
		}
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg := Config{
		App: app.Config{
			Backend:      strings.ToLower(strings.TrimSpace(*backendName)),
			SocketPath:   *socket,
			TickRate:     *tick,
			PollInterval: *poll,
			Strict:       *strict,
			Print:        *printOnce,
			Width:        *width,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"backend": *backendName,
			"socket":  *socket,
			"tick":    tick.String(),
			"poll":    poll.String(),
			"strict":  strconv.FormatBool(*strict),
			"print":   strconv.FormatBool(*printOnce),
			"width":   strconv.Itoa(*width),
			"trace":   strconv.FormatBool(*trace),
			"logFile": *logFile,
		},
		Args: append([]string(nil), args...),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultBackend prefers tmux when running inside a tmux client.
func defaultBackend(env map[string]string) string {
	if strings.TrimSpace(env[envTmux]) != "" {
		return app.BackendTmux
	}
	return app.BackendI3
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
	if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
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

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate rejects values the application cannot run with.
func Validate(cfg Config) error {
	switch cfg.App.Backend {
	case app.BackendI3, app.BackendTmux:
	default:
		return fmt.Errorf("backend must be %q or %q (got %q)", app.BackendI3, app.BackendTmux, cfg.App.Backend)
	}
	if cfg.App.TickRate <= 0 {
		return fmt.Errorf("tick must be > 0 (got %s)", cfg.App.TickRate)
	}
	if cfg.App.PollInterval <= 0 {
		return fmt.Errorf("poll must be > 0 (got %s)", cfg.App.PollInterval)
	}
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	return nil
}
