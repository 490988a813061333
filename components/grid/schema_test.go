package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidate(t *testing.T) {
	cases := []struct {
		name   string
		schema Schema
		ok     bool
	}{
		{"valid", fruitSchema(), true},
		{"empty", Schema{}, false},
		{"missing name", Schema{Fields: []Field{{Type: FieldString}}}, false},
		{"duplicate", Schema{Fields: []Field{{Name: "a", Type: FieldString}, {Name: "a", Type: FieldNumber}}}, false},
		{"bad type", Schema{Fields: []Field{{Name: "a", Type: "date"}}}, false},
		{"enum on number", Schema{Fields: []Field{{Name: "a", Type: FieldNumber, Enum: []string{"x"}}}}, false},
		{"minimum on string", Schema{Fields: []Field{{Name: "a", Type: FieldString, Minimum: minimum(1)}}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.schema.Validate()
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Unit Price", Field{Name: "unit_price"}.DisplayLabel())
	assert.Equal(t, "Customer Type", Field{Name: "customerType"}.DisplayLabel())
	assert.Equal(t, "Qty", Field{Name: "qty"}.DisplayLabel())
	assert.Equal(t, "Unnamed", Field{Name: "index", Label: "Unnamed"}.DisplayLabel())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "4.5", FormatValue(4.5))
	assert.Equal(t, "220", FormatValue(220.0))
	assert.Equal(t, "0.1", FormatValue(0.1))
	assert.Equal(t, "Garlic", FormatValue("Garlic"))
}

func TestJSONSchemaRendering(t *testing.T) {
	doc := salesTable().Schema.JSONSchema()
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded struct {
		Required   []string                  `json:"required"`
		Additional bool                      `json:"additionalProperties"`
		Properties map[string]map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.ElementsMatch(t, []string{"timestamp", "category", "unit_price", "quantity"}, decoded.Required)
	assert.False(t, decoded.Additional)
	assert.Equal(t, []any{"gold", "silver", "bronze"}, decoded.Properties["customer_type"]["enum"])
	assert.Equal(t, 0.0, decoded.Properties["unit_price"]["minimum"])
	assert.Equal(t, "number", decoded.Properties["total"]["type"])
}

func TestJSONSchemaValidatorReportsField(t *testing.T) {
	validator := NewJSONSchemaValidator()
	schema := salesTable().Schema

	err := validator.ValidateRow(schema, map[string]any{
		"timestamp":     "02-03-2022 09:51",
		"category":      "Dairy",
		"customer_type": "platinum",
		"unit_price":    1.0,
		"quantity":      1.0,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "customer_type", verr.Field)
	assert.ErrorIs(t, err, ErrSchemaViolation)

	require.NoError(t, validator.ValidateRow(schema, map[string]any{
		"timestamp":  "02-03-2022 09:51",
		"category":   "Dairy",
		"unit_price": 1.0,
		"quantity":   1.0,
	}))
	assert.Len(t, validator.compiled, 1)
}

func TestNoopRowValidatorSkipsConstraints(t *testing.T) {
	engine := newFruitEngine(t, nil, EngineOptions{Validator: NoopRowValidator()})
	_, err := engine.AddRow(Row{Values: map[string]any{"name": "Debt", "qty": -10}})
	require.NoError(t, err)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Op: "update field", RowID: "7", Field: "qty", Err: ErrInvalidNumber}
	assert.Equal(t, `grid: update field: row "7": field "qty": value must be a finite number`, err.Error())
}
