package filesource

import (
	"slices"

	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

// recordLog keeps the last field map written per identifier, in first write
// order.
type recordLog struct {
	hasher   domain.Hasher
	comparer domain.Comparer
	index    map[uint64][]int
	entries  []map[string]any
}

func newLog(h domain.Hasher, c domain.Comparer) *recordLog {
	return &recordLog{hasher: h, comparer: c, index: make(map[uint64][]int)}
}

func (l *recordLog) find(id any) (uint64, int, error) {
	h, err := l.hasher.Hash(id)
	if err != nil {
		return 0, -1, err
	}
	for _, pos := range l.index[h] {
		if l.entries[pos] == nil {
			continue
		}
		comp, err := l.comparer.Compare(l.entries[pos][domain.IDField], id)
		if err != nil {
			return 0, -1, err
		}
		if comp == 0 {
			return h, pos, nil
		}
	}
	return h, -1, nil
}

func (l *recordLog) set(m map[string]any) error {
	h, pos, err := l.find(m[domain.IDField])
	if err != nil {
		return err
	}
	if pos >= 0 {
		l.entries[pos] = m
		return nil
	}
	l.index[h] = append(l.index[h], len(l.entries))
	l.entries = append(l.entries, m)
	return nil
}

func (l *recordLog) remove(id any) error {
	_, pos, err := l.find(id)
	if err != nil || pos < 0 {
		return err
	}
	l.entries[pos] = nil
	return nil
}

func (l *recordLog) values() []map[string]any {
	return slices.DeleteFunc(slices.Clone(l.entries), func(m map[string]any) bool { return m == nil })
}
