package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-datagrid/components/grid"
	"github.com/goliatone/go-datagrid/pkg/sqlitestore"
)

// Globals are flags shared by every command. Empty values fall back to the
// config file and GRIDCTL_* environment variables.
type Globals struct {
	Config   string   `type:"path" help:"Config file (defaults to ./gridctl.yaml when present)."`
	Database string   `type:"path" help:"SQLite database holding saved table snapshots."`
	Manifest []string `type:"path" help:"Table manifest to register (repeatable)."`
	Locale   string   `help:"Collation locale for sorting."`
	PageSize int      `name:"page-size" help:"Default rows per page."`
	Verbose  bool     `short:"v" help:"Log grid events to stderr."`

	out io.Writer `kong:"-"`
}

type cli struct {
	Globals

	Tables   tablesCmd   `cmd:"" help:"List registered tables."`
	Show     showCmd     `cmd:"" help:"Print one page of a table."`
	Export   exportCmd   `cmd:"" help:"Write a table's filtered and sorted rows as CSV."`
	Import   importCmd   `cmd:"" help:"Load CSV rows into a table and save the snapshot."`
	Validate validateCmd `cmd:"" help:"Check table manifests for errors."`
	Scaffold scaffoldCmd `cmd:"" help:"Infer a table definition from a CSV file and add it to a manifest."`
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("gridctl"),
		kong.Description("Inspect, export and import go-datagrid tables."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	app.Globals.out = os.Stdout
	err := ctx.Run(&app.Globals)
	ctx.FatalIfErrorf(err)
}

func (g *Globals) stdout() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

// environment is the service stack a command runs against.
type environment struct {
	settings settings
	registry *grid.Registry
	service  *grid.Service
	store    grid.RowStore
	close    func() error
}

func openEnvironment(g *Globals) (*environment, error) {
	cfg, err := loadSettings(g)
	if err != nil {
		return nil, err
	}
	registry := grid.NewRegistry()
	for _, path := range cfg.Manifests {
		if _, err := registry.LoadManifestFile(path); err != nil {
			return nil, err
		}
	}

	env := &environment{settings: cfg, registry: registry, close: func() error { return nil }}
	if cfg.Database != "" {
		store, err := sqlitestore.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		env.store = store
		env.close = store.Close
	}

	var telemetry grid.Telemetry
	if g.Verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		telemetry = grid.NewLogTelemetry(logger, slog.LevelDebug)
	}
	env.service = grid.NewService(grid.Options{
		Registry:  registry,
		Store:     env.store,
		Telemetry: telemetry,
		PageSize:  cfg.PageSize,
		Locale:    cfg.Locale,
	})
	return env, nil
}

func (e *environment) requireStore() error {
	if e.store == nil {
		return fmt.Errorf("gridctl: no database configured (use --database or GRIDCTL_DATABASE)")
	}
	return nil
}
