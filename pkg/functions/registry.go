// Package functions provides the built-in function registry consumed by
// the evaluator.
//
// The registry maps a function name to its invocation contract: the
// declared parameter names, whether positional and named argument styles
// are accepted, and the implementation. The evaluator resolves call
// nodes against a Registry and binds arguments by position or by name
// before invoking.
//
// A Registry shared across concurrent evaluations must be fully
// populated before first use and treated as read-only thereafter. The
// default registry is built exactly once via sync.Once.
package functions

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sandrolain/gofeel/pkg/types"
)

// Invoke is the implementation of a built-in function. args holds the
// bound argument values in declared parameter order; parameters left
// unbound by a named-argument call arrive as FEEL null.
type Invoke func(ctx context.Context, args []types.Value) (types.Value, error)

// Definition describes a single built-in function: its invocation
// contract plus the implementation.
type Definition struct {
	// Name is the function name as it appears in expressions.
	Name string
	// Params are the declared parameter names, in order.
	Params []string
	// PositionalAllowed reports whether the function may be called with
	// positional arguments.
	PositionalAllowed bool
	// NamedAllowed reports whether the function may be called with
	// named arguments.
	NamedAllowed bool
	// Invoke is the implementation.
	Invoke Invoke
}

// Registry holds function definitions keyed by name.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]*Definition),
	}
}

// Register adds or replaces a definition. Register must not be called
// concurrently with Resolve; populate the registry fully before sharing it.
func (r *Registry) Register(def *Definition) {
	r.defs[def.Name] = def
}

// Resolve retrieves a definition by name.
func (r *Registry) Resolve(name string) (*Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the registered function names, unordered.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	return names
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the shared default registry holding a minimal set of
// FEEL built-ins. It is initialized once and must be treated as
// read-only; callers wanting to extend it should build their own
// Registry instead.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerDefaults(defaultRegistry)
	})
	return defaultRegistry
}

// registerDefaults installs the standard single-word FEEL built-ins.
// The engine treats built-in bodies as external collaborators; this set
// exists so the engine is usable stand-alone and conformance cases that
// exercise the invocation contract can run.
func registerDefaults(r *Registry) {
	r.Register(&Definition{
		Name:              "not",
		Params:            []string{"negand"},
		PositionalAllowed: true,
		NamedAllowed:      true,
		Invoke: func(_ context.Context, args []types.Value) (types.Value, error) {
			if args[0].Kind() != types.KindBoolean {
				return types.NewNull(), nil
			}
			return types.NewBoolean(!args[0].Boolean()), nil
		},
	})

	r.Register(&Definition{
		Name:              "abs",
		Params:            []string{"n"},
		PositionalAllowed: true,
		NamedAllowed:      true,
		Invoke: func(_ context.Context, args []types.Value) (types.Value, error) {
			if args[0].Kind() != types.KindNumber {
				return types.NewNull(), nil
			}
			return types.NewNumber(args[0].Number().Abs()), nil
		},
	})

	r.Register(&Definition{
		Name:              "floor",
		Params:            []string{"n"},
		PositionalAllowed: true,
		NamedAllowed:      true,
		Invoke: func(_ context.Context, args []types.Value) (types.Value, error) {
			if args[0].Kind() != types.KindNumber {
				return types.NewNull(), nil
			}
			return types.NewNumber(args[0].Number().Floor()), nil
		},
	})

	r.Register(&Definition{
		Name:              "ceiling",
		Params:            []string{"n"},
		PositionalAllowed: true,
		NamedAllowed:      true,
		Invoke: func(_ context.Context, args []types.Value) (types.Value, error) {
			if args[0].Kind() != types.KindNumber {
				return types.NewNull(), nil
			}
			return types.NewNumber(args[0].Number().Ceil()), nil
		},
	})

	r.Register(&Definition{
		Name:              "string",
		Params:            []string{"from"},
		PositionalAllowed: true,
		NamedAllowed:      true,
		Invoke: func(_ context.Context, args []types.Value) (types.Value, error) {
			switch args[0].Kind() {
			case types.KindNull:
				return types.NewNull(), nil
			case types.KindString:
				return args[0], nil
			case types.KindNumber:
				return types.NewString(args[0].Number().String()), nil
			case types.KindBoolean:
				if args[0].Boolean() {
					return types.NewString("true"), nil
				}
				return types.NewString("false"), nil
			default:
				return types.NewString(args[0].String()), nil
			}
		},
	})

	r.Register(&Definition{
		Name:              "number",
		Params:            []string{"from"},
		PositionalAllowed: true,
		NamedAllowed:      true,
		Invoke: func(_ context.Context, args []types.Value) (types.Value, error) {
			switch args[0].Kind() {
			case types.KindNumber:
				return args[0], nil
			case types.KindString:
				d, err := decimal.NewFromString(strings.TrimSpace(args[0].Str()))
				if err != nil {
					return types.NewNull(), nil
				}
				return types.NewNumber(d), nil
			default:
				return types.NewNull(), nil
			}
		},
	})

	r.Register(&Definition{
		Name:              "count",
		Params:            []string{"list"},
		PositionalAllowed: true,
		NamedAllowed:      true,
		Invoke: func(_ context.Context, args []types.Value) (types.Value, error) {
			if args[0].Kind() != types.KindList {
				return types.NewNull(), nil
			}
			return types.NewNumber(decimal.NewFromInt(int64(len(args[0].List())))), nil
		},
	})

	r.Register(&Definition{
		Name:              "sum",
		Params:            []string{"list"},
		PositionalAllowed: true,
		NamedAllowed:      true,
		Invoke: func(_ context.Context, args []types.Value) (types.Value, error) {
			if args[0].Kind() != types.KindList {
				return types.NewNull(), nil
			}
			total := decimal.Zero
			for _, item := range args[0].List() {
				if item.Kind() != types.KindNumber {
					return types.NewNull(), nil
				}
				total = total.Add(item.Number())
			}
			return types.NewNumber(total), nil
		},
	})

	r.Register(&Definition{
		Name:              "contains",
		Params:            []string{"string", "match"},
		PositionalAllowed: true,
		NamedAllowed:      true,
		Invoke: func(_ context.Context, args []types.Value) (types.Value, error) {
			if args[0].Kind() != types.KindString || args[1].Kind() != types.KindString {
				return types.NewNull(), nil
			}
			return types.NewBoolean(strings.Contains(args[0].Str(), args[1].Str())), nil
		},
	})
}
