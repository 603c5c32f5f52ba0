package memory

import (
	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

type bstComparer struct {
	comparer domain.Comparer
}

// newBSTComparer orders tree keys with comparer and tells records apart by
// identifier.
func newBSTComparer(comparer domain.Comparer) bst.Comparer[any, domain.Record] {
	return &bstComparer{
		comparer: comparer,
	}
}

// CompareKeys implements bst.Comparer.
func (bc *bstComparer) CompareKeys(a any, b any) (int, error) {
	return bc.comparer.Compare(a, b)
}

// CompareValues implements bst.Comparer.
func (bc *bstComparer) CompareValues(a domain.Record, b domain.Record) (bool, error) {
	return a.Equal(b), nil
}
