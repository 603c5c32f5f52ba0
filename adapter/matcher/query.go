package matcher

import (
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
	"github.com/vinicius-lino-figueiredo/synthscope/pkg/uncomparable"
)

// Query stores compiled filters in a typed and easier to iterate struct. It
// implements [domain.Filter].
type Query struct {
	m     *Matcher
	Rules []FieldRule
}

// FieldRule stores the conditions used to match a single field.
type FieldRule struct {
	Field string
	Conds []Cond
}

// Cond stores a single compiled predicate.
type Cond struct {
	Op  domain.Op
	Val any
	Set *uncomparable.Set
	Fn  func(any) bool
}
