package grid

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSVWritesFilteredSortedRows(t *testing.T) {
	engine := newFruitEngine(t, []Row{
		{ID: "1", Values: map[string]any{"name": "Orange", "category": "Fruits, citrus", "qty": 100}},
		{ID: "2", Values: map[string]any{"name": "Apple", "category": "Fruits", "qty": 4.5}},
		{ID: "3", Values: map[string]any{"name": "Milk", "category": "Dairy", "qty": 2}},
	}, EngineOptions{PageSize: 1})
	engine.SetSearchText("fruit")
	_, _ = engine.ToggleSort("name")

	var buf bytes.Buffer
	err := engine.ExportCSV(&buf, []Column{
		{Label: "Product", Field: "name"},
		{Label: "Category", Field: "category"},
		{Label: "Qty", Field: "qty"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Product,Category,Qty\nApple,Fruits,4.5\nOrange,\"Fruits, citrus\",100\n", buf.String())
}

func TestExportCSVDefaultColumns(t *testing.T) {
	engine := newFruitEngine(t, []Row{
		{ID: "1", Values: map[string]any{"name": "Pear", "qty": 3}},
	}, EngineOptions{})

	var buf bytes.Buffer
	require.NoError(t, engine.ExportCSV(&buf, nil))
	assert.Equal(t, "Name,Category,Qty,Sku,Note\nPear,,3,,\n", buf.String())
}

func TestExportCSVRejectsUnknownColumn(t *testing.T) {
	engine := newFruitEngine(t, nil, EngineOptions{})
	err := engine.ExportCSV(&bytes.Buffer{}, []Column{{Label: "Colour", Field: "colour"}})
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestCSVRoundTripReproducesRows(t *testing.T) {
	engine, err := NewEngine(purchasesTable().Schema, purchasesTable().SeedRows(), EngineOptions{})
	require.NoError(t, err)
	engine.SetSearchText("o")
	_, _ = engine.ToggleSort("sale_price")
	_, _ = engine.ToggleSort("sale_price")
	columns := purchasesTable().ExportColumns()

	var buf bytes.Buffer
	require.NoError(t, engine.ExportCSV(&buf, columns))

	parsed, err := ReadCSV(strings.NewReader(buf.String()), engine.Schema(), columns)
	require.NoError(t, err)
	reloaded, err := NewEngine(engine.Schema(), parsed, EngineOptions{})
	require.NoError(t, err)

	var want []map[string]any
	for row := range engine.Filtered() {
		want = append(want, row.Values)
	}
	var got []map[string]any
	for _, row := range reloaded.Rows() {
		got = append(got, row.Values)
	}
	require.NotEmpty(t, want)
	assert.Equal(t, want, got)
}

func TestReadCSVResolvesHeaders(t *testing.T) {
	doc := "SKU,product name,qty\nPT009,Plum,\"12\"\n"
	rows, err := ReadCSV(strings.NewReader(doc), productsTable().Schema, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]any{"sku": "PT009", "name": "Plum", "qty": "12"}, rows[0].Values)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), fruitSchema(), nil)
	require.Error(t, err)

	_, err = ReadCSV(strings.NewReader("Name,Colour\nPear,green\n"), fruitSchema(), nil)
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = ReadCSV(strings.NewReader("Name,Qty\nPear\n"), fruitSchema(), nil)
	require.Error(t, err)
}
