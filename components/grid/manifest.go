package grid

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// TableManifestDocument models a YAML/JSON manifest describing tables.
type TableManifestDocument struct {
	Version string            `json:"version" yaml:"version"`
	Name    string            `json:"name,omitempty" yaml:"name,omitempty"`
	Tables  []TableDefinition `json:"tables" yaml:"tables"`
	Source  string            `json:"-" yaml:"-"`
}

// LoadManifestFile reads a manifest from disk, registers it against the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*TableManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers every table of a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *TableManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("grid: manifest document is nil")
	}
	for _, def := range doc.Tables {
		if err := r.RegisterDefinition(def); err != nil {
			return fmt.Errorf("grid: register table %s from %s: %w", def.Code, doc.Source, err)
		}
		r.recordSource(def.Code, doc.Source)
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*TableManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("grid: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("grid: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*TableManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc TableManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("grid: manifest is empty")
		}
		return nil, fmt.Errorf("grid: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeManifest writes the document as YAML.
func EncodeManifest(w io.Writer, doc *TableManifestDocument) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("grid: encode manifest: %w", err)
	}
	return enc.Close()
}

// Validate ensures the manifest satisfies required fields and that every
// table's seed rows load cleanly.
func (doc *TableManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("grid: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Tables))
	for idx, def := range doc.Tables {
		if def.Code == "" {
			return fmt.Errorf("grid: manifest table at index %d is missing code", idx)
		}
		if def.Name == "" {
			return fmt.Errorf("grid: manifest table %s missing name", def.Code)
		}
		if _, exists := seen[def.Code]; exists {
			return fmt.Errorf("grid: manifest duplicates table code %s", def.Code)
		}
		seen[def.Code] = struct{}{}
		if def.PageSize < 0 {
			return fmt.Errorf("grid: manifest table %s: %w", def.Code, ErrInvalidPageSize)
		}
		if err := checkColumns(def.Schema, def.Columns); err != nil {
			return fmt.Errorf("grid: manifest table %s: %w", def.Code, err)
		}
		if _, err := def.Engine(def.SeedRows(), EngineOptions{}); err != nil {
			return fmt.Errorf("grid: manifest table %s: %w", def.Code, err)
		}
	}
	return nil
}

func (doc *TableManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Tables {
		def := &doc.Tables[i]
		if def.PageSize == 0 {
			def.PageSize = DefaultPageSize
		}
		if def.Locale == "" {
			def.Locale = DefaultLocale
		}
	}
}
