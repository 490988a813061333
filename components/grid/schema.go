package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ettle/strcase"
)

// Validate checks the schema definition itself.
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return invalid("schema", "", "", fmt.Errorf("%w: at least one field is required", ErrInvalidSchema))
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for idx, f := range s.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return invalid("schema", "", "", fmt.Errorf("%w: field at index %d is missing a name", ErrInvalidSchema, idx))
		}
		if _, dup := seen[f.Name]; dup {
			return invalid("schema", "", f.Name, fmt.Errorf("%w: duplicate field", ErrInvalidSchema))
		}
		seen[f.Name] = struct{}{}
		if !f.Type.Valid() {
			return invalid("schema", "", f.Name, fmt.Errorf("%w: unsupported type %q", ErrInvalidSchema, f.Type))
		}
		if len(f.Enum) > 0 && f.Type != FieldString {
			return invalid("schema", "", f.Name, fmt.Errorf("%w: enum requires a string field", ErrInvalidSchema))
		}
		if f.Minimum != nil && f.Type != FieldNumber {
			return invalid("schema", "", f.Name, fmt.Errorf("%w: minimum requires a number field", ErrInvalidSchema))
		}
	}
	return nil
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// SearchableFields returns the names of fields matched by the search text.
func (s Schema) SearchableFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Searchable {
			names = append(names, f.Name)
		}
	}
	return names
}

// DefaultColumns returns one column per field, in schema order.
func (s Schema) DefaultColumns() []Column {
	cols := make([]Column, 0, len(s.Fields))
	for _, f := range s.Fields {
		cols = append(cols, Column{Label: f.DisplayLabel(), Field: f.Name})
	}
	return cols
}

// DisplayLabel returns the configured label or a title-cased field name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return strcase.ToCase(f.Name, strcase.TitleCase, ' ')
}

// JSONSchema renders the schema as a draft JSON Schema document.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	required := []string{}
	for _, f := range s.Fields {
		prop := map[string]any{}
		switch f.Type {
		case FieldString:
			prop["type"] = "string"
			if f.Required {
				prop["minLength"] = 1
			}
			if len(f.Enum) > 0 {
				prop["enum"] = append([]string(nil), f.Enum...)
			}
		case FieldNumber:
			prop["type"] = "number"
			if f.Minimum != nil {
				prop["minimum"] = *f.Minimum
			}
		}
		props[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

// coerceValues converts raw input into a values map for a new row.
func (s Schema) coerceValues(op, rowID string, raw map[string]any) (map[string]any, error) {
	for name := range raw {
		if _, ok := s.Field(name); !ok {
			return nil, invalid(op, rowID, name, ErrUnknownField)
		}
	}
	values := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v, present, err := f.coerce(raw[f.Name])
		if err != nil {
			return nil, invalid(op, rowID, f.Name, err)
		}
		if !present {
			if f.Required {
				return nil, invalid(op, rowID, f.Name, ErrRequiredField)
			}
			continue
		}
		values[f.Name] = v
	}
	return values, nil
}

// coerce normalises a raw value. Empty strings and nil read as absent.
func (f Field) coerce(raw any) (any, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	switch f.Type {
	case FieldString:
		var s string
		switch v := raw.(type) {
		case string:
			s = v
		case json.Number:
			s = v.String()
		default:
			n, ok := numericValue(raw)
			if !ok {
				return nil, false, ErrInvalidType
			}
			s = formatNumber(n)
		}
		if strings.TrimSpace(s) == "" {
			return nil, false, nil
		}
		return s, true, nil
	case FieldNumber:
		var n float64
		switch v := raw.(type) {
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				return nil, false, nil
			}
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, false, ErrInvalidNumber
			}
			n = parsed
		case json.Number:
			parsed, err := v.Float64()
			if err != nil {
				return nil, false, ErrInvalidNumber
			}
			n = parsed
		default:
			parsed, ok := numericValue(raw)
			if !ok {
				return nil, false, ErrInvalidNumber
			}
			n = parsed
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false, ErrInvalidNumber
		}
		return n, true, nil
	}
	return nil, false, ErrInvalidType
}

func numericValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatValue renders a stored value the way search and export see it.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	}
	if n, ok := numericValue(v); ok {
		return formatNumber(n)
	}
	return fmt.Sprint(v)
}
