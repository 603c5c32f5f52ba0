// Package base contains an embeddable partial [domain.Adapter].
//
// Concrete adapters embed [Adapter] to inherit the field declaration and the
// context key list, and override [Adapter.AllIDs] and [Adapter.LoadByID].
package base

import (
	"context"
	"slices"

	"github.com/vinicius-lino-figueiredo/synthscope/adapter/record"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// Adapter implements the declarative part of [domain.Adapter].
type Adapter struct {
	Def  *record.Definition
	Keys []string
}

// New returns an [Adapter] for def accepting the given context keys.
func New(def *record.Definition, contextKeys ...string) Adapter {
	return Adapter{Def: def, Keys: slices.Clone(contextKeys)}
}

// Name implements [domain.Adapter].
func (a Adapter) Name() string {
	return a.Def.Name()
}

// Columns implements [domain.Adapter].
func (a Adapter) Columns() []string {
	return a.Def.Columns()
}

// ContextKeys implements [domain.Adapter].
func (a Adapter) ContextKeys() []string {
	return slices.Clone(a.Keys)
}

// AllIDs implements [domain.Adapter]. It always fails with
// [domain.ErrNotImplemented].
func (a Adapter) AllIDs(context.Context, domain.Context) ([]any, error) {
	return nil, domain.ErrNotImplemented{Adapter: a.Name(), Method: "AllIDs"}
}

// LoadByID implements [domain.Adapter]. It always fails with
// [domain.ErrNotImplemented].
func (a Adapter) LoadByID(context.Context, any, domain.Context) (domain.Record, error) {
	return nil, domain.ErrNotImplemented{Adapter: a.Name(), Method: "LoadByID"}
}
