package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atomicstack/treectl/internal/app"
	"github.com/atomicstack/treectl/internal/config"
	"github.com/atomicstack/treectl/internal/logging"
	"github.com/atomicstack/treectl/internal/logging/events"
	"golang.org/x/term"
)

const (
	exitOK     = 0
	exitError  = 1
	exitConfig = 2
)

var runApp = app.Run

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stderr))
}

func run(args, environ []string, stderr io.Writer) int {
	cfg, err := config.LoadArgs(args, environ)
	var help *config.HelpRequest
	if errors.As(err, &help) {
		fmt.Fprint(stderr, help.Usage)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return exitConfig
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	events.App.Start(startupTracePayload(cfg))

	if err := runApp(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":    cfg.Args,
		"flags":   flags,
		"config":  cfg,
		"backend": cfg.App.Backend,
		"tty":     collectTTYDetails(),
		"logPath": logging.Path(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}

type ttyProbe struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails reports which standard descriptors are terminals and their
// sizes. The dashboard reads keys from stdin and draws on stdout.
func collectTTYDetails() []ttyProbe {
	fds := []struct {
		name string
		file *os.File
	}{
		{"stdin", os.Stdin},
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
	}
	probes := make([]ttyProbe, 0, len(fds))
	for _, d := range fds {
		probe := ttyProbe{Name: d.name}
		fd := int(d.file.Fd())
		if term.IsTerminal(fd) {
			probe.IsTerminal = true
			if w, h, err := term.GetSize(fd); err == nil {
				probe.Width, probe.Height = w, h
			} else {
				probe.Error = err.Error()
			}
		}
		probes = append(probes, probe)
	}
	return probes
}
