package grid

import (
	"fmt"
	"sort"
	"sync"
)

// TableHook lets packages register tables during init().
type TableHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []TableHook
)

// RegisterTableHook registers a hook executed against new registries.
func RegisterTableHook(h TableHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry implements TableRegistry with hook + manifest support.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]TableDefinition
	sources     map[string]string
}

// NewRegistry builds a registry holding the built-in tables and applies
// global hooks.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

// NewEmptyRegistry builds a registry without built-in tables or hooks.
func NewEmptyRegistry() *Registry {
	return &Registry{
		definitions: map[string]TableDefinition{},
		sources:     map[string]string{},
	}
}

func (r *Registry) registerDefaults() {
	for _, def := range DefaultTableDefinitions() {
		_ = r.RegisterDefinition(def)
	}
}

// ApplyHooks executes registered table hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefinition validates and stores a table definition, replacing any
// previous definition with the same code.
func (r *Registry) RegisterDefinition(def TableDefinition) error {
	if def.Code == "" {
		return errMissingCode
	}
	if err := def.Schema.Validate(); err != nil {
		return fmt.Errorf("grid: table %s: %w", def.Code, err)
	}
	if err := checkColumns(def.Schema, def.Columns); err != nil {
		return fmt.Errorf("grid: table %s: %w", def.Code, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// Definition fetches a table definition by code.
func (r *Registry) Definition(code string) (TableDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Definitions returns all registered definitions sorted by code.
func (r *Registry) Definitions() []TableDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]TableDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs
}

// Source returns the manifest path a definition was loaded from, if any.
func (r *Registry) Source(code string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[code]
	return src, ok
}

func (r *Registry) recordSource(code, source string) {
	if source == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[code] = source
}
