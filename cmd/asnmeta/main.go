// # cmd/asnmeta/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"asnmeta/internal/config"
)

var (
	configPath  = flag.String("config", "./asnmeta.toml", "Path to config file")
	watch       = flag.Bool("watch", false, "Keep running and re-scan on file changes")
	ui          = flag.Bool("ui", false, "Enable terminal UI mode (implies -watch)")
	format      = flag.String("format", "json", "Stdout format: json, table or tsv")
	trends      = flag.String("trends", "", "Print a trend report over the given window (e.g. 72h) and exit")
	metricsAddr = flag.String("metrics-addr", "", "Serve /metrics and /health on this address in watch mode")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("asnmeta v%s\n", VERSION)
		os.Exit(0)
	}

	if *ui {
		*watch = true
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	logOutput := os.Stderr
	if *ui {
		// In UI mode, avoid stderr logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
			if err == nil {
				logOutput = f
			} else {
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config; a missing default config file just means defaults.
	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./asnmeta.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = cfg.Scan.Patterns
	}
	if len(patterns) == 0 {
		fmt.Fprintln(os.Stderr, "usage: asnmeta [flags] <glob-pattern>...")
		os.Exit(1)
	}

	app, err := NewApp(cfg, patterns)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if *trends != "" {
		window, err := time.ParseDuration(*trends)
		if err != nil {
			slog.Error("invalid trends window", "value", *trends, "error", err)
			os.Exit(1)
		}
		if err := app.PrintTrends(window); err != nil {
			slog.Error("failed to build trend report", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()
	stats, err := app.Scan(ctx)
	if err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(1)
	}

	if !*ui {
		if err := app.RenderStdout(*format); err != nil {
			slog.Error("failed to render result", "error", err)
			os.Exit(1)
		}
	}
	if err := app.WriteOutputs(); err != nil {
		slog.Error("failed to write outputs", "error", err)
	}
	if !*ui {
		app.PrintSummary(stats)
	}
	app.RecordSnapshot(stats)

	if !*watch {
		os.Exit(0)
	}

	// Watch mode
	if *metricsAddr != "" {
		srv := NewObservabilityServer(*metricsAddr, app.Health)
		if err := srv.Start(); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
	}

	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := app.RunUI(); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		// Block forever
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "asnmeta", "asnmeta.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "asnmeta", "asnmeta.log")
	}

	return "asnmeta.log"
}
