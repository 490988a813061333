package datagrid

import "testing"

func TestNewEngineProxy(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "name", Type: "string", Searchable: true}}}
	engine, err := NewEngine(schema, []Row{{ID: "1", Values: map[string]any{"name": "Pear"}}}, EngineOptions{})
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}
	if view := engine.VisibleRows(); view.Total != 1 {
		t.Fatalf("expected one row, got %d", view.Total)
	}
}
