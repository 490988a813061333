package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryHoldsBuiltInTables(t *testing.T) {
	reg := NewRegistry()
	var codes []string
	for _, def := range reg.Definitions() {
		codes = append(codes, def.Code)
	}
	assert.Subset(t, codes, []string{TableCatalog, TableProducts, TablePurchases, TableSales})

	sales, ok := reg.Definition(TableSales)
	require.True(t, ok)
	assert.Len(t, sales.Seed, 21)
	assert.Equal(t, "sales_data.csv", sales.Filename())
}

func TestBuiltInSeedRowsLoad(t *testing.T) {
	for _, def := range DefaultTableDefinitions() {
		t.Run(def.Code, func(t *testing.T) {
			engine, err := def.Engine(def.SeedRows(), EngineOptions{})
			require.NoError(t, err)
			assert.Equal(t, len(def.Seed), engine.Len())
		})
	}
}

func TestRegisterTableHook(t *testing.T) {
	globalHookMu.Lock()
	saved := globalHooks
	globalHooks = nil
	globalHookMu.Unlock()
	defer func() {
		globalHookMu.Lock()
		globalHooks = saved
		globalHookMu.Unlock()
	}()

	RegisterTableHook(func(reg *Registry) error {
		return reg.RegisterDefinition(TableDefinition{
			Code:   "custom.notes",
			Name:   "Notes",
			Schema: Schema{Fields: []Field{{Name: "body", Type: FieldString}}},
		})
	})
	reg := NewRegistry()
	_, ok := reg.Definition("custom.notes")
	assert.True(t, ok)

	failing := errors.New("boom")
	RegisterTableHook(func(*Registry) error { return failing })
	require.ErrorIs(t, NewEmptyRegistry().ApplyHooks(), failing)
}

func TestRegisterDefinitionValidates(t *testing.T) {
	reg := NewEmptyRegistry()
	require.Error(t, reg.RegisterDefinition(TableDefinition{Name: "No code"}))
	require.ErrorIs(t, reg.RegisterDefinition(TableDefinition{Code: "x"}), ErrInvalidSchema)
	require.ErrorIs(t, reg.RegisterDefinition(TableDefinition{
		Code:    "x",
		Schema:  Schema{Fields: []Field{{Name: "a", Type: FieldString}}},
		Columns: []Column{{Label: "B", Field: "b"}},
	}), ErrUnknownField)
	assert.Empty(t, reg.Definitions())
}

func TestTableDefinitionFilename(t *testing.T) {
	assert.Equal(t, "stock_levels.csv", TableDefinition{Code: "inventory.stockLevels"}.Filename())
	assert.Equal(t, "product_list.csv", purchasesTable().Filename())
}
