package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goliatone/go-datagrid/components/grid"
)

type tablesCmd struct {
	JSON bool `help:"Print JSON instead of a text table."`
}

func (cmd *tablesCmd) Run(ctx context.Context, g *Globals) error {
	env, err := openEnvironment(g)
	if err != nil {
		return err
	}
	defer env.close()

	tables := env.service.Tables(ctx)
	if cmd.JSON {
		return writeJSON(g.stdout(), tables)
	}
	rows := make([][]string, 0, len(tables))
	for _, table := range tables {
		source, ok := env.registry.Source(table.Code)
		if !ok {
			source = "built-in"
		}
		rows = append(rows, []string{
			table.Code,
			table.Name,
			strconv.Itoa(len(table.Fields)),
			strconv.Itoa(table.PageSize),
			table.ExportFilename,
			source,
		})
	}
	return renderTable(g.stdout(), []string{"CODE", "NAME", "FIELDS", "PAGE SIZE", "EXPORT", "SOURCE"}, rows)
}

// ViewFlags shapes a table's view before it is printed or exported.
type ViewFlags struct {
	Search string   `help:"Case-insensitive text filter over searchable fields."`
	Sort   []string `help:"Field to toggle sort on; repeat a field to flip its direction."`
}

func (f ViewFlags) apply(ctx context.Context, svc *grid.Service, table string) error {
	if f.Search != "" {
		if _, err := svc.Search(ctx, grid.SearchRequest{Table: table, Text: f.Search}); err != nil {
			return err
		}
	}
	for _, field := range f.Sort {
		if _, err := svc.ToggleSort(ctx, grid.SortRequest{Table: table, Field: field}); err != nil {
			return err
		}
	}
	return nil
}

type showCmd struct {
	Table string `arg:"" help:"Table code."`
	ViewFlags
	Page     int  `default:"1" help:"Page to print (clamped to the last page)."`
	PageSize int  `name:"rows" help:"Rows per page for this listing."`
	JSON     bool `help:"Print the view as JSON."`
}

func (cmd *showCmd) Run(ctx context.Context, g *Globals) error {
	env, err := openEnvironment(g)
	if err != nil {
		return err
	}
	defer env.close()

	def, err := env.service.Definition(cmd.Table)
	if err != nil {
		return err
	}
	if err := cmd.ViewFlags.apply(ctx, env.service, cmd.Table); err != nil {
		return err
	}
	view, err := env.service.SetPage(ctx, grid.PageRequest{Table: cmd.Table, Page: cmd.Page, PageSize: cmd.PageSize})
	if err != nil {
		return err
	}
	if cmd.JSON {
		return writeJSON(g.stdout(), view)
	}
	return renderView(g.stdout(), def.ExportColumns(), view)
}

type exportCmd struct {
	Table string `arg:"" help:"Table code."`
	ViewFlags
	Out    string   `short:"o" type:"path" help:"Output file (defaults to the table's export filename; '-' writes to stdout)."`
	Column []string `help:"Field to export (repeatable; defaults to the table's columns)."`
}

func (cmd *exportCmd) Run(ctx context.Context, g *Globals) error {
	env, err := openEnvironment(g)
	if err != nil {
		return err
	}
	defer env.close()

	def, err := env.service.Definition(cmd.Table)
	if err != nil {
		return err
	}
	if err := cmd.ViewFlags.apply(ctx, env.service, cmd.Table); err != nil {
		return err
	}
	columns, err := selectColumns(def, cmd.Column)
	if err != nil {
		return err
	}

	out := cmd.Out
	if out == "" {
		out = def.Filename()
	}
	var w io.Writer = g.stdout()
	if out != "-" {
		file, err := os.Create(out) //nolint:gosec
		if err != nil {
			return fmt.Errorf("gridctl: create %s: %w", out, err)
		}
		defer file.Close()
		w = file
	}
	if err := env.service.Export(ctx, w, grid.ExportRequest{Table: cmd.Table, Columns: columns}); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(os.Stderr, "✓ Exported %s to %s\n", cmd.Table, out)
	}
	return nil
}

// selectColumns maps field names onto the table's column labels.
func selectColumns(def grid.TableDefinition, fields []string) ([]grid.Column, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	available := def.ExportColumns()
	columns := make([]grid.Column, 0, len(fields))
	for _, name := range fields {
		field, ok := def.Schema.Field(name)
		if !ok {
			return nil, fmt.Errorf("gridctl: table %s has no field %q", def.Code, name)
		}
		col := grid.Column{Label: field.DisplayLabel(), Field: field.Name}
		for _, candidate := range available {
			if candidate.Field == field.Name {
				col = candidate
				break
			}
		}
		columns = append(columns, col)
	}
	return columns, nil
}

type importCmd struct {
	Table   string `arg:"" help:"Table code."`
	File    string `arg:"" type:"existingfile" help:"CSV file with a header row."`
	Replace bool   `help:"Replace the table's rows instead of appending."`
}

func (cmd *importCmd) Run(ctx context.Context, g *Globals) error {
	env, err := openEnvironment(g)
	if err != nil {
		return err
	}
	defer env.close()
	if err := env.requireStore(); err != nil {
		return err
	}

	def, err := env.service.Definition(cmd.Table)
	if err != nil {
		return err
	}
	file, err := os.Open(cmd.File) //nolint:gosec
	if err != nil {
		return fmt.Errorf("gridctl: open %s: %w", cmd.File, err)
	}
	defer file.Close()

	rows, err := grid.ReadCSV(file, def.Schema, def.Columns)
	if err != nil {
		return err
	}
	count, err := env.service.Import(ctx, grid.ImportRequest{Table: cmd.Table, Rows: rows, Replace: cmd.Replace})
	if err != nil {
		return err
	}
	if err := env.service.Save(ctx, cmd.Table); err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "✓ Imported %d rows into %s\n", count, cmd.Table)
	return nil
}

type validateCmd struct {
	Paths []string `arg:"" type:"existingfile" help:"Manifest files to check."`
}

func (cmd *validateCmd) Run(_ context.Context, g *Globals) error {
	var errs []error
	for _, path := range cmd.Paths {
		doc, err := grid.ReadManifest(path)
		if err != nil {
			fmt.Fprintf(g.stdout(), "✗ %s: %v\n", path, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(g.stdout(), "✓ %s: %d tables\n", path, len(doc.Tables))
	}
	if len(errs) > 0 {
		return fmt.Errorf("gridctl: %d of %d manifests invalid: %w", len(errs), len(cmd.Paths), errors.Join(errs...))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
