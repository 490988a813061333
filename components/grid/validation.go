package grid

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RowValidator validates coerced row values against table constraints.
type RowValidator interface {
	ValidateRow(schema Schema, values map[string]any) error
}

// JSONSchemaValidator compiles table schemas and validates rows against them.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// ValidateRow ensures values satisfy the schema's JSON Schema rendering.
func (v *JSONSchemaValidator) ValidateRow(schema Schema, values map[string]any) error {
	compiled, err := v.schemaFor(schema)
	if err != nil {
		return err
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("grid: marshal row: %w", err)
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("grid: normalize row: %w", err)
	}
	if err := compiled.Validate(payload); err != nil {
		return schemaViolation(err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(schema Schema) (*jsonschema.Schema, error) {
	doc := schema.JSONSchema()
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("grid: marshal json schema: %w", err)
	}
	key := fingerprint(data)

	v.mu.RLock()
	compiled, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiler := jsonschema.NewCompiler()
	name := key + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("grid: load json schema: %w", err)
	}
	compiled, err = compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("grid: compile json schema: %w", err)
	}
	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}

func schemaViolation(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &ValidationError{Err: fmt.Errorf("%w: %v", ErrSchemaViolation, err)}
	}
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if i := strings.Index(field, "/"); i >= 0 {
		field = field[:i]
	}
	return &ValidationError{Field: field, Err: fmt.Errorf("%w: %s", ErrSchemaViolation, leaf.Message)}
}

func fingerprint(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

type noopRowValidator struct{}

func (noopRowValidator) ValidateRow(Schema, map[string]any) error { return nil }

// NoopRowValidator skips constraint checks beyond type coercion.
func NoopRowValidator() RowValidator { return noopRowValidator{} }
