// Package main is the entry point for the nimble editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/nimble/internal/app"
	"github.com/dshills/nimble/internal/config"
	"github.com/dshills/nimble/internal/logging"
	"github.com/dshills/nimble/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, logLevel, logFile := parseFlags()
	configureLogging(opts.ConfigPath, logLevel, logFile)

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	term, err := backend.NewTerminal(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) || errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// configureLogging sends logs to a file, since the terminal belongs to the
// editor. Flags override the config file.
func configureLogging(configPath, level, file string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.Default()
	}
	if level == "" {
		level = cfg.Logging.Level
	}
	if file == "" {
		file = cfg.Logging.File
	}
	if file == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			file = filepath.Join(dir, "nimble", "nimble.log")
			_ = os.MkdirAll(filepath.Dir(file), 0o755)
		}
	}
	logging.Configure(logging.ParseLogLevel(level), file)
}

func parseFlags() (opts app.Options, logLevel, logFile string) {
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", config.DefaultPath(), "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", config.DefaultPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Log file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "nimble - a small terminal editor with language server highlighting\n\n")
		fmt.Fprintf(os.Stderr, "Usage: nimble [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+Q quit   Ctrl+N/P next/previous file\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+A select all   Ctrl+C/X/V copy, cut, paste\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		for _, name := range config.EnvNames() {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("nimble %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch logLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", logLevel)
		os.Exit(1)
	}

	opts.Files = flag.Args()
	opts.Version = version
	return opts, logLevel, logFile
}
