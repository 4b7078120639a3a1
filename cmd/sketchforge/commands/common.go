// Package commands defines the sketchforge CLI surface.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"sketchforge/internal/catalog"
	"sketchforge/internal/compile"
	"sketchforge/internal/config"
	"sketchforge/internal/export"
	"sketchforge/internal/firmware"
	"sketchforge/internal/history"
	"sketchforge/internal/job"
	"sketchforge/internal/logfields"
	"sketchforge/internal/metrics"
	"sketchforge/internal/sketch"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sketchforge.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Compile a sketch and export the flashable binary"`
	Catalog CatalogCmd `cmd:"" help:"List or search the community sketch catalog"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild a local sketch whenever it changes"`
	History HistoryCmd `cmd:"" help:"Show recent build jobs"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// HardwareFlags are the per-command hardware selection flags. Empty values
// fall back to the configured defaults.
type HardwareFlags struct {
	Variant   string `help:"Board variant" placeholder:"NAME"`
	Display   string `help:"Display controller (SH1106, SSD1306, SSD1309)"`
	FlashChip string `name:"flash-chip" help:"Flash chip wiring (Pin2/D1/SDA, Pin0/D0/Rx)"`
}

// buildConfiguration merges the flags over the configured hardware defaults.
func (h HardwareFlags) buildConfiguration(cfg *config.Config) firmware.BuildConfiguration {
	bc := cfg.Hardware.BuildConfiguration()
	if h.Variant != "" {
		bc.Variant = firmware.Variant(h.Variant)
	}
	if h.Display != "" {
		bc.Display = firmware.Display(h.Display)
	}
	if h.FlashChip != "" {
		bc.FlashChip = firmware.FlashChip(h.FlashChip)
	}
	return bc
}

// newOrchestrator wires the build pipeline from configuration. The export
// destination receives the artifact before staging teardown.
func newOrchestrator(cfg *config.Config, output string) *job.Orchestrator {
	stager := sketch.NewStager(cfg.Git.Binary, cfg.Staging.BaseDir)
	invoker := compile.NewInvoker(cfg.Compiler.Binary, cfg.Compiler.FQBN)
	recorder := metrics.NewPrometheusRecorder(prom.NewRegistry())

	return job.New(stager, invoker).
		WithRecorder(recorder).
		WithExportFunc(func(res job.Result) error {
			target, err := export.Export(res.ArtifactPath, output, res.SuggestedName)
			if err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", target)
			return nil
		})
}

// openHistory opens the configured history store, or a no-op store when
// history is not configured.
func openHistory(cfg *config.Config) history.Store {
	if cfg.History.Path == "" {
		return history.NoopStore{}
	}
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		slog.Warn("Build history disabled", logfields.Path(cfg.History.Path), logfields.Error(err))
		return history.NoopStore{}
	}
	return store
}

// recordResult appends a terminal job result to the history store.
func recordResult(ctx context.Context, store history.Store, res job.Result, source sketch.Source) {
	rec := history.Record{
		ID:         res.ID,
		Title:      res.Title,
		Source:     source.Describe(),
		State:      string(res.State),
		Artifact:   res.ArtifactPath,
		StartedAt:  res.StartTime,
		FinishedAt: res.EndTime,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	if err := store.Append(ctx, rec); err != nil {
		slog.Warn("Failed to record build history", logfields.Error(err))
	}
}

// reportResult renders a terminal job result for the user, including the raw
// compiler diagnostics on a compile failure.
func reportResult(res job.Result) error {
	if res.Err == nil {
		return nil
	}
	var ce *compile.CompileError
	if errors.As(res.Err, &ce) {
		if ce.Stdout != "" {
			fmt.Fprintln(os.Stderr, ce.Stdout)
		}
		if ce.Stderr != "" {
			fmt.Fprintln(os.Stderr, ce.Stderr)
		}
	}
	var cloneErr *sketch.CloneError
	if errors.As(res.Err, &cloneErr) && cloneErr.Output != "" {
		fmt.Fprintln(os.Stderr, cloneErr.Output)
	}
	return res.Err
}

// findCatalogItem resolves a catalog title to its record, case-folded.
func findCatalogItem(ctx context.Context, cfg *config.Config, title string) (catalog.Item, error) {
	items, err := catalog.NewClient(cfg.Catalog.URL).Fetch(ctx)
	if err != nil {
		return catalog.Item{}, err
	}
	matches := catalog.Filter(items, title)
	if len(matches) == 0 {
		return catalog.Item{}, fmt.Errorf("no catalog sketch matches %q", title)
	}
	return matches[0], nil
}
