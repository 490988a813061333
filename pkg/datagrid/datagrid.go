package datagrid

import (
	core "github.com/goliatone/go-datagrid/components/grid"
)

// Service exposes the underlying components/grid.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Engine is the single-table grid engine.
type Engine = core.Engine

// EngineOptions re-export for convenience.
type EngineOptions = core.EngineOptions

// Schema, Field, Row, Column and View mirror the core types.
type (
	Schema = core.Schema
	Field  = core.Field
	Row    = core.Row
	Column = core.Column
	View   = core.View
)

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewEngine proxies to the internal constructor.
func NewEngine(schema Schema, rows []Row, opts EngineOptions) (*Engine, error) {
	return core.NewEngine(schema, rows, opts)
}
