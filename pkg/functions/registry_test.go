package functions_test

import (
	"context"
	"testing"

	"github.com/sandrolain/gofeel/pkg/functions"
	"github.com/sandrolain/gofeel/pkg/types"
)

func TestRegistryRegisterAndResolve(t *testing.T) {
	r := functions.NewRegistry()

	def := &functions.Definition{
		Name:              "identity",
		Params:            []string{"value"},
		PositionalAllowed: true,
		NamedAllowed:      true,
		Invoke: func(_ context.Context, args []types.Value) (types.Value, error) {
			return args[0], nil
		},
	}
	r.Register(def)

	got, ok := r.Resolve("identity")
	if !ok {
		t.Fatal("identity not resolved")
	}
	if got != def {
		t.Error("resolved a different definition")
	}

	if _, ok := r.Resolve("missing"); ok {
		t.Error("resolved a function that was never registered")
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := functions.NewRegistry()
	first := &functions.Definition{Name: "f", Params: nil}
	second := &functions.Definition{Name: "f", Params: []string{"a"}}

	r.Register(first)
	r.Register(second)

	got, _ := r.Resolve("f")
	if got != second {
		t.Error("re-registering did not replace the definition")
	}
	if len(r.Names()) != 1 {
		t.Errorf("names = %v, want exactly one entry", r.Names())
	}
}

func TestDefaultRegistryIsStable(t *testing.T) {
	a := functions.Default()
	b := functions.Default()
	if a != b {
		t.Error("Default returned different registries")
	}

	for _, name := range []string{"not", "abs", "floor", "ceiling", "string", "number", "count", "sum", "contains"} {
		if _, ok := a.Resolve(name); !ok {
			t.Errorf("default registry missing %q", name)
		}
	}
}
