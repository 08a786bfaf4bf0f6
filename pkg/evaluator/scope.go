package evaluator

import (
	"fmt"

	"github.com/sandrolain/gofeel/pkg/types"
)

// Scope is an immutable variable-binding environment. Scopes form a
// parent chain: lookup walks innermost to outermost, a child shadows its
// parent, and a parent is never mutated through a child.
type Scope struct {
	parent *Scope
	vars   map[string]types.Value
}

// NewScope creates a root scope over the given bindings.
// The map is owned by the scope and must not be mutated afterwards.
func NewScope(vars map[string]types.Value) *Scope {
	if vars == nil {
		vars = map[string]types.Value{}
	}
	return &Scope{vars: vars}
}

// Child creates a nested scope that shadows the receiver.
func (s *Scope) Child(vars map[string]types.Value) *Scope {
	if vars == nil {
		vars = map[string]types.Value{}
	}
	return &Scope{parent: s, vars: vars}
}

// Lookup resolves a name, searching innermost to outermost scope.
func (s *Scope) Lookup(name string) (types.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if value, ok := cur.vars[name]; ok {
			return value, true
		}
	}
	return types.Value{}, false
}

// LookupLocal resolves a name in this scope only, without consulting
// parents. Used for argument binding, where an unbound parameter must
// not fall back to an identically named outer variable.
func (s *Scope) LookupLocal(name string) (types.Value, bool) {
	value, ok := s.vars[name]
	return value, ok
}

// Depth returns the length of the parent chain, for diagnostics.
func (s *Scope) Depth() int {
	depth := 0
	for cur := s.parent; cur != nil; cur = cur.parent {
		depth++
	}
	return depth
}

// String returns a string representation of the scope.
func (s *Scope) String() string {
	return fmt.Sprintf("Scope{depth=%d, bindings=%d}", s.Depth(), len(s.vars))
}
