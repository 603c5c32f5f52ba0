// Package memory contains a [domain.Adapter] over an in-memory record list.
//
// Records are indexed by identifier in a binary search tree, so [Adapter.AllIDs]
// enumerates identifiers in ascending order.
package memory

import (
	"context"
	"fmt"

	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/vinicius-lino-figueiredo/bst/adapter/unbalanced"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/base"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/idgenerator"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/record"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
	"github.com/vinicius-lino-figueiredo/synthscope/pkg/ctxsync"
	"github.com/vinicius-lino-figueiredo/synthscope/pkg/structure"
)

// Adapter implements [domain.Adapter] and [domain.BatchLoader].
type Adapter struct {
	base.Adapter
	mu       *ctxsync.RWMutex
	tree     bst.BST[any, domain.Record]
	comparer domain.Comparer
	idgen    domain.IDGenerator
	visible  func(domain.Record, domain.Context) bool
}

// New returns an empty [Adapter] for records of def.
func New(def *record.Definition, opts ...Option) *Adapter {
	a := &Adapter{
		Adapter:  base.New(def),
		mu:       ctxsync.NewRWMutex(),
		comparer: comparer.NewComparer(),
		idgen:    idgenerator.NewIDGenerator(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.tree = unbalanced.NewBST(true, 8, newBSTComparer(a.comparer))
	return a
}

// Insert adds values as records. Each value is a string-keyed map or a
// struct tagged with "synth". Values without an identifier get a generated
// one. Nothing is inserted if any value fails.
func (a *Adapter) Insert(values ...any) ([]domain.Record, error) {
	records := make([]domain.Record, len(values))
	for n, v := range values {
		r, err := a.build(v)
		if err != nil {
			return nil, err
		}
		records[n] = r
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for n, r := range records {
		if err := a.tree.Insert(r.ID(), r); err != nil {
			for _, done := range records[:n] {
				_ = a.tree.Delete(done.ID(), &done)
			}
			return nil, fmt.Errorf("inserting %s %v: %w", a.Name(), r.ID(), err)
		}
	}
	return records, nil
}

func (a *Adapter) build(v any) (domain.Record, error) {
	seq, length, err := structure.Seq2(v)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any, length+1)
	for k, val := range seq {
		fields[k] = val
	}
	if fields[domain.IDField] == nil {
		id, err := a.idgen.GenerateID()
		if err != nil {
			return nil, err
		}
		fields[domain.IDField] = id
	}
	return a.Def.New(fields)
}

// Delete removes the records with the given identifiers. Unknown ids are
// ignored.
func (a *Adapter) Delete(ids ...any) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, id := range ids {
		found, err := a.tree.Search(id)
		if err != nil {
			return err
		}
		if found == nil || len(found.Values) == 0 {
			continue
		}
		r := found.Values[0]
		if err := a.tree.Delete(id, &r); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the amount of stored records, regardless of visibility.
func (a *Adapter) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tree.GetNumberOfKeys()
}

// AllIDs implements [domain.Adapter].
func (a *Adapter) AllIDs(ctx context.Context, c domain.Context) ([]any, error) {
	if err := a.mu.RLockWithContext(ctx); err != nil {
		return nil, err
	}
	defer a.mu.RUnlock()

	ids := make([]any, 0, a.tree.GetNumberOfKeys())
	for r := range a.tree.GetAll() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if a.isVisible(r, c) {
			ids = append(ids, r.ID())
		}
	}
	return ids, nil
}

// LoadByID implements [domain.Adapter].
func (a *Adapter) LoadByID(ctx context.Context, id any, c domain.Context) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.mu.RLockWithContext(ctx); err != nil {
		return nil, err
	}
	defer a.mu.RUnlock()
	return a.search(id, c)
}

// LoadByIDs implements [domain.BatchLoader].
func (a *Adapter) LoadByIDs(ctx context.Context, ids []any, c domain.Context) ([]domain.Record, error) {
	if err := a.mu.RLockWithContext(ctx); err != nil {
		return nil, err
	}
	defer a.mu.RUnlock()

	res := make([]domain.Record, len(ids))
	for n, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := a.search(id, c)
		if err != nil {
			return nil, err
		}
		res[n] = r
	}
	return res, nil
}

func (a *Adapter) search(id any, c domain.Context) (domain.Record, error) {
	found, err := a.tree.Search(id)
	if err != nil {
		return nil, err
	}
	if found == nil || len(found.Values) == 0 {
		return nil, nil
	}
	r := found.Values[0]
	if !a.isVisible(r, c) {
		return nil, nil
	}
	return r, nil
}

func (a *Adapter) isVisible(r domain.Record, c domain.Context) bool {
	return a.visible == nil || a.visible(r, c)
}
