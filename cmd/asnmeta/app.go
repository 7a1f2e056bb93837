// # cmd/asnmeta/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"asnmeta/internal/config"
	"asnmeta/internal/history"
	"asnmeta/internal/output"
	"asnmeta/internal/parser"
	"asnmeta/internal/shared/observability"
	"asnmeta/internal/shared/util"
	"asnmeta/internal/watcher"
)

var tracer = otel.Tracer("asnmeta")

type App struct {
	Config   *config.Config
	patterns []string
	policy   parser.DuplicatePolicy

	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob

	history    *history.Store
	limiter    *util.Limiter
	teaProgram *tea.Program

	// Guards the latest result; the watcher callback and the UI goroutine
	// both read it.
	mu       sync.Mutex
	mapping  parser.ResultMapping
	lastScan ScanStats
}

// ScanStats summarizes one scan for the terminal summary, the TUI and the
// history snapshot.
type ScanStats struct {
	Files    int
	Errors   int
	Modules  int
	Types    int
	Fields   int
	Warnings []parser.Warning
	Duration time.Duration
	At       time.Time
}

func NewApp(cfg *config.Config, patterns []string) (*App, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no glob patterns given")
	}

	policy := parser.DuplicateReplace
	if cfg.Scan.OnDuplicate == "error" {
		policy = parser.DuplicateError
	}

	a := &App{
		Config:   cfg,
		patterns: patterns,
		policy:   policy,
		limiter:  util.NewLimiter(cfg.Watch.MaxRescansPerSec, 1),
	}

	for _, p := range cfg.Exclude.Dirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		a.excludeDirs = append(a.excludeDirs, g)
	}
	for _, p := range cfg.Exclude.Files {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		a.excludeFiles = append(a.excludeFiles, g)
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.history = store
	}

	return a, nil
}

func (a *App) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}

// ExpandPatterns resolves the glob patterns against the working directory
// and filters the exclude patterns. Zero matches is a hard failure.
func (a *App) ExpandPatterns() ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range a.patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, path := range matches {
			if seen[path] || a.shouldExclude(path) {
				continue
			}
			if info, err := os.Stat(path); err != nil || info.IsDir() {
				continue
			}
			seen[path] = true
			files = append(files, path)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files match %s", strings.Join(a.patterns, ", "))
	}

	sort.Strings(files)
	return files, nil
}

func (a *App) shouldExclude(path string) bool {
	base := filepath.Base(path)
	for _, g := range a.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	dir := filepath.Dir(path)
	for dir != "." && dir != string(filepath.Separator) {
		for _, g := range a.excludeDirs {
			if g.Match(filepath.Base(dir)) {
				return true
			}
		}
		dir = filepath.Dir(dir)
	}
	return false
}

// Scan runs one full pass: expand, read, scan, build, merge. Unreadable
// files are skipped with a warning; only zero matched or zero readable
// files is an error, as is a duplicate path under the error policy.
func (a *App) Scan(ctx context.Context) (ScanStats, error) {
	_, span := tracer.Start(ctx, "scan", trace.WithAttributes(
		attribute.Int("patterns", len(a.patterns)),
	))
	defer span.End()

	start := time.Now()

	files, err := a.ExpandPatterns()
	if err != nil {
		return ScanStats{}, err
	}

	builder := parser.NewBuilder(a.policy)
	var warnings []parser.Warning
	readCount := 0
	errCount := 0

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to read file", "path", path, "error", err)
			observability.FileErrorsTotal.Inc()
			errCount++
			continue
		}
		readCount++
		observability.FilesScannedTotal.Inc()

		scanner := parser.NewScanner(path)
		events := scanner.Scan(content)
		warnings = append(warnings, scanner.Warnings()...)

		if err := builder.Apply(path, events); err != nil {
			return ScanStats{}, err
		}
	}

	if readCount == 0 {
		return ScanStats{}, fmt.Errorf("none of the %d matched files could be read", len(files))
	}

	warnings = append(warnings, builder.Warnings()...)
	for _, w := range warnings {
		slog.Warn("scan warning", "kind", w.Kind.String(), "file", w.File, "line", w.Line, "detail", w.Detail)
		observability.WarningsTotal.WithLabelValues(w.Kind.String()).Inc()
	}

	mapping := builder.Mapping()
	stats := ScanStats{
		Files:    readCount,
		Errors:   errCount,
		Modules:  builder.ModulesSeen(),
		Types:    builder.TypesSeen(),
		Fields:   mapping.Fields(),
		Warnings: warnings,
		Duration: time.Since(start),
		At:       start,
	}

	a.mu.Lock()
	a.mapping = mapping
	a.lastScan = stats
	a.mu.Unlock()

	observability.ScanDuration.Observe(stats.Duration.Seconds())
	observability.FieldsExtracted.Set(float64(stats.Fields))
	observability.ModulesExtracted.Set(float64(stats.Modules))
	span.SetAttributes(
		attribute.Int("files", stats.Files),
		attribute.Int("fields", stats.Fields),
		attribute.Int("warnings", len(stats.Warnings)),
	)

	return stats, nil
}

// Mapping returns the result of the most recent scan.
func (a *App) Mapping() parser.ResultMapping {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mapping
}

func (a *App) RenderStdout(format string) error {
	mapping := a.Mapping()

	switch format {
	case "json":
		out, err := output.RenderJSON(mapping)
		if err != nil {
			return err
		}
		fmt.Print(out)
	case "table":
		fmt.Println(output.RenderTable(mapping))
	case "tsv":
		fmt.Print(output.RenderTSV(mapping))
	default:
		return fmt.Errorf("unknown output format %q (want json, table or tsv)", format)
	}
	return nil
}

func (a *App) WriteOutputs() error {
	mapping := a.Mapping()

	if a.Config.Output.JSON != "" {
		out, err := output.RenderJSON(mapping)
		if err != nil {
			return err
		}
		if err := util.WriteFileWithDirs(a.Config.Output.JSON, []byte(out), 0o644); err != nil {
			return err
		}
	}

	if a.Config.Output.TSV != "" {
		if err := util.WriteFileWithDirs(a.Config.Output.TSV, []byte(output.RenderTSV(mapping)), 0o644); err != nil {
			return err
		}
	}

	if a.Config.Output.Msgpack != "" {
		data, err := output.EncodeMsgpack(mapping)
		if err != nil {
			return err
		}
		if err := util.WriteFileWithDirs(a.Config.Output.Msgpack, data, 0o644); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) PrintSummary(stats ScanStats) {
	if !a.Config.Alerts.Terminal {
		return
	}

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Scan: %d files in %v\n", stats.Files, stats.Duration)
	fmt.Printf("Extracted: %d modules, %d types, %d annotated fields\n", stats.Modules, stats.Types, stats.Fields)

	if stats.Errors > 0 {
		fmt.Printf("⚠️  %d FILES COULD NOT BE READ\n", stats.Errors)
	}
	if len(stats.Warnings) > 0 {
		fmt.Printf("⚠️  %d SCAN WARNINGS:\n", len(stats.Warnings))
		for _, w := range stats.Warnings {
			fmt.Printf("   %s\n", w)
		}
	} else {
		fmt.Println("✅ No scan warnings.")
	}
	fmt.Println(strings.Repeat("-", 40))

	if a.Config.Alerts.Beep && (stats.Errors > 0 || len(stats.Warnings) > 0) {
		fmt.Print("\a")
	}
}

func (a *App) RecordSnapshot(stats ScanStats) {
	if a.history == nil {
		return
	}
	err := a.history.SaveSnapshot(history.Snapshot{
		FileCount:    stats.Files,
		ErrorCount:   stats.Errors,
		ModuleCount:  stats.Modules,
		TypeCount:    stats.Types,
		FieldCount:   stats.Fields,
		WarningCount: len(stats.Warnings),
		DurationMS:   stats.Duration.Milliseconds(),
	})
	if err != nil {
		slog.Error("failed to record history snapshot", "error", err)
	}
}

func (a *App) PrintTrends(window time.Duration) error {
	if a.history == nil {
		return fmt.Errorf("history is not configured, set [history] path")
	}

	snapshots, err := a.history.LoadSnapshots(time.Now().Add(-window))
	if err != nil {
		return err
	}
	report, err := history.BuildTrendReport(snapshots, window)
	if err != nil {
		return err
	}

	fmt.Printf("Trend report: %d scans between %s and %s\n",
		report.ScanCount,
		report.Since.Format(time.RFC3339),
		report.Until.Format(time.RFC3339))
	for _, p := range report.Points {
		fmt.Printf("  %s  files=%d fields=%d (%+d) warnings=%d (%+d) avg=%.1f\n",
			p.Timestamp.Format("2006-01-02 15:04:05"),
			p.FileCount, p.FieldCount, p.DeltaFields,
			p.WarningCount, p.DeltaWarnings, p.AvgFields)
	}
	return nil
}

// StartWatcher re-scans whenever a matched file changes. Re-scans are
// rate limited so a burst of writes cannot thrash the pipeline.
func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.matchesAnyPattern,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	// Runs for the process lifetime; no Close here.
	return w.Watch(a.watchDirs())
}

// watchDirs derives the directories to watch from the non-glob prefix of
// each pattern.
func (a *App) watchDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range a.patterns {
		dir := staticPrefixDir(pattern)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func staticPrefixDir(pattern string) string {
	if i := strings.IndexAny(pattern, "*?["); i >= 0 {
		pattern = pattern[:i]
	}
	dir := filepath.Dir(pattern)
	if dir == "" {
		return "."
	}
	return dir
}

func (a *App) matchesAnyPattern(path string) bool {
	for _, pattern := range a.patterns {
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		// Watch events may carry just the base name relative to a
		// watched subdirectory.
		if ok, err := filepath.Match(filepath.Base(pattern), filepath.Base(path)); err == nil && ok {
			return true
		}
	}
	return false
}

func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))

	if err := a.limiter.Wait(context.Background(), 1); err != nil {
		slog.Error("rescan limiter failed", "error", err)
		return
	}

	stats, err := a.Scan(context.Background())
	if err != nil {
		slog.Error("re-scan failed", "error", err)
		return
	}

	if err := a.WriteOutputs(); err != nil {
		slog.Error("failed to write outputs", "error", err)
	}
	a.PrintSummary(stats)
	a.RecordSnapshot(stats)

	if a.teaProgram != nil {
		a.teaProgram.Send(updateMsg{
			warnings: stats.Warnings,
			files:    stats.Files,
			modules:  stats.Modules,
			fields:   stats.Fields,
		})
	}
}

func (a *App) RunUI() error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	// Push the result of the initial scan once the program is up.
	go func() {
		a.mu.Lock()
		stats := a.lastScan
		a.mu.Unlock()
		p.Send(updateMsg{
			warnings: stats.Warnings,
			files:    stats.Files,
			modules:  stats.Modules,
			fields:   stats.Fields,
		})
	}()

	_, err := p.Run()
	return err
}
