package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-datagrid/components/grid"
)

type scaffoldCmd struct {
	CSV          string `arg:"" name:"csv" type:"existingfile" help:"CSV file whose header and sample rows describe the table."`
	Code         string `required:"" help:"Fully-qualified table code (e.g. inventory.suppliers)."`
	Name         string `help:"Display name (defaults to the code's last segment in title case)."`
	Description  string `help:"One-line description recorded in the manifest."`
	ManifestPath string `name:"manifest-out" required:"" type:"path" help:"Manifest YAML file to create or update."`
	Sample       int    `default:"50" help:"Rows read to infer field types."`
	Seed         bool   `help:"Embed the sampled rows as seed data."`
	Overwrite    bool   `help:"Replace an existing table with the same code."`
}

func (cmd *scaffoldCmd) Run(_ context.Context, g *Globals) error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("gridctl: table code %s must contain at least one '.' segment", cmd.Code)
	}
	file, err := os.Open(cmd.CSV) //nolint:gosec
	if err != nil {
		return fmt.Errorf("gridctl: open %s: %w", cmd.CSV, err)
	}
	defer file.Close()
	header, samples, err := sampleCSV(file, cmd.Sample)
	if err != nil {
		return err
	}

	def := inferDefinition(cmd.Code, header, samples)
	if cmd.Name != "" {
		def.Name = cmd.Name
	}
	def.Description = cmd.Description
	if cmd.Seed {
		def.Seed = seedFromSamples(def.Schema, samples)
	}

	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("gridctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if err := addTable(doc, def, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("gridctl: scaffolded table is invalid: %w", err)
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "✓ Added %s (%d fields) to %s\n", cmd.Code, len(def.Schema.Fields), manifestPath)
	return nil
}

func sampleCSV(r io.Reader, limit int) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("gridctl: csv file is empty")
		}
		return nil, nil, fmt.Errorf("gridctl: read csv header: %w", err)
	}
	reader.FieldsPerRecord = len(header)
	var samples [][]string
	for limit <= 0 || len(samples) < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("gridctl: read csv row %d: %w", len(samples)+1, err)
		}
		samples = append(samples, record)
	}
	return header, samples, nil
}

// inferDefinition derives a schema from a CSV header and sample records.
// A column is numeric when every non-empty sample parses as a number and
// required when no sample leaves it empty.
func inferDefinition(code string, header []string, samples [][]string) grid.TableDefinition {
	fields := make([]grid.Field, 0, len(header))
	seen := map[string]int{}
	for i, cell := range header {
		label := strings.TrimSpace(cell)
		name := strcase.ToSnake(label)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}

		field := grid.Field{Name: name, Type: grid.FieldString}
		if label != "" && label != strcase.ToCase(name, strcase.TitleCase, ' ') {
			field.Label = label
		}
		numeric, filled, empty := true, 0, 0
		for _, record := range samples {
			value := strings.TrimSpace(record[i])
			if value == "" {
				empty++
				continue
			}
			filled++
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				numeric = false
			}
		}
		if numeric && filled > 0 {
			field.Type = grid.FieldNumber
		} else {
			field.Searchable = true
		}
		field.Required = filled > 0 && empty == 0
		fields = append(fields, field)
	}

	segments := strings.Split(code, ".")
	return grid.TableDefinition{
		Code:   code,
		Name:   strcase.ToCase(segments[len(segments)-1], strcase.TitleCase, ' '),
		Schema: grid.Schema{Fields: fields},
	}
}

func seedFromSamples(schema grid.Schema, samples [][]string) []map[string]any {
	seed := make([]map[string]any, 0, len(samples))
	for _, record := range samples {
		values := map[string]any{}
		for i, field := range schema.Fields {
			value := strings.TrimSpace(record[i])
			if value == "" {
				continue
			}
			if field.Type == grid.FieldNumber {
				n, _ := strconv.ParseFloat(value, 64)
				values[field.Name] = n
				continue
			}
			values[field.Name] = value
		}
		seed = append(seed, values)
	}
	return seed
}

func addTable(doc *grid.TableManifestDocument, def grid.TableDefinition, overwrite bool) error {
	replaced := false
	for idx := range doc.Tables {
		if doc.Tables[idx].Code != def.Code {
			continue
		}
		if !overwrite {
			return fmt.Errorf("gridctl: manifest already defines table %s (use --overwrite to replace)", def.Code)
		}
		doc.Tables[idx] = def
		replaced = true
		break
	}
	if !replaced {
		doc.Tables = append(doc.Tables, def)
	}
	sort.Slice(doc.Tables, func(i, j int) bool {
		return doc.Tables[i].Code < doc.Tables[j].Code
	})
	return nil
}

func loadOrInitManifest(path string) (*grid.TableManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &grid.TableManifestDocument{
				Version: grid.ManifestVersion,
				Tables:  []grid.TableDefinition{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("gridctl: stat manifest: %w", err)
	}
	return grid.ReadManifest(path)
}

func writeManifest(path string, doc *grid.TableManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("gridctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("gridctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	if err := grid.EncodeManifest(file, doc); err != nil {
		return fmt.Errorf("gridctl: write manifest: %w", err)
	}
	return nil
}
