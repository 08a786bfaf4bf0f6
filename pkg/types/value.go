package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind identifies the runtime type of a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBoolean
	KindNumber
	KindString
	KindList
	KindContext
)

// String returns a human-readable name for the kind, as used in error
// messages ("cannot compare number with string").
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindContext:
		return "context"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a runtime value produced by evaluation. It is an immutable
// tagged union over the six kinds; the zero Value is null.
//
// Numbers carry exact decimal precision (shopspring/decimal), so
// "3.14 + 1" yields exactly 4.14 with no binary floating-point drift.
type Value struct {
	kind ValueKind
	b    bool
	n    decimal.Decimal
	s    string
	list []Value
	ctx  *ContextValue
}

// NewNull returns the null value.
func NewNull() Value {
	return Value{kind: KindNull}
}

// NewBoolean returns a boolean value.
func NewBoolean(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

// NewNumber returns a number value holding d exactly.
func NewNumber(d decimal.Decimal) Value {
	return Value{kind: KindNumber, n: d}
}

// NumberFromString parses a decimal literal into a number value.
func NumberFromString(s string) (Value, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return NewNumber(d), nil
}

// NewString returns a string value.
func NewString(s string) Value {
	return Value{kind: KindString, s: s}
}

// NewList returns a list value. The caller must not mutate items after
// the call.
func NewList(items []Value) Value {
	return Value{kind: KindList, list: items}
}

// NewContext returns a context value wrapping ctx. A nil ctx is treated
// as an empty context.
func NewContext(ctx *ContextValue) Value {
	if ctx == nil {
		ctx = NewContextValue()
	}
	return Value{kind: KindContext, ctx: ctx}
}

// Kind returns the runtime kind of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Boolean returns the boolean payload. Valid only when Kind is
// KindBoolean; other kinds return false.
func (v Value) Boolean() bool {
	return v.b
}

// Number returns the decimal payload. Valid only when Kind is
// KindNumber; other kinds return zero.
func (v Value) Number() decimal.Decimal {
	return v.n
}

// Str returns the string payload. Valid only when Kind is KindString.
func (v Value) Str() string {
	return v.s
}

// List returns the list payload. Valid only when Kind is KindList. The
// caller must not mutate the returned slice.
func (v Value) List() []Value {
	return v.list
}

// Context returns the context payload. Valid only when Kind is
// KindContext; other kinds return nil.
func (v Value) Context() *ContextValue {
	return v.ctx
}

// Equal reports deep equality between two values of the same kind.
// Numbers compare by numeric value, so 1.0 equals 1. Values of
// different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBoolean:
		return v.b == other.b
	case KindNumber:
		return v.n.Cmp(other.n) == 0
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindContext:
		return v.ctx.equal(other.ctx)
	default:
		return false
	}
}

// String renders the value for diagnostics and error messages. It is
// not a serialization format; use ToAny with encoding/json for that.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.n.String()
	case KindString:
		return v.s
	case KindList:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(item.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case KindContext:
		return v.ctx.String()
	default:
		return fmt.Sprintf("value(kind=%d)", int(v.kind))
	}
}

// ToAny converts the value to a JSON-compatible Go representation.
// Numbers become json.Number so decimal exactness survives the API
// boundary; contexts become map[string]any (insertion order is an
// internal property, Go maps do not carry it).
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBoolean:
		return v.b
	case KindNumber:
		return json.Number(v.n.String())
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.ToAny()
		}
		return out
	case KindContext:
		out := make(map[string]any, v.ctx.Len())
		for _, key := range v.ctx.Keys {
			value, _ := v.ctx.Get(key)
			out[key] = value.ToAny()
		}
		return out
	default:
		return nil
	}
}

// FromAny converts a JSON-compatible Go value into a Value. Numeric Go
// types convert exactly where possible; float64 goes through
// decimal.NewFromFloat, which yields the shortest decimal that round-trips.
// Map keys are inserted in sorted order so conversion is deterministic.
func FromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return NewNull(), nil
	case Value:
		return t, nil
	case bool:
		return NewBoolean(t), nil
	case string:
		return NewString(t), nil
	case int:
		return NewNumber(decimal.NewFromInt(int64(t))), nil
	case int32:
		return NewNumber(decimal.NewFromInt32(t)), nil
	case int64:
		return NewNumber(decimal.NewFromInt(t)), nil
	case float32:
		return NewNumber(decimal.NewFromFloat32(t)), nil
	case float64:
		return NewNumber(decimal.NewFromFloat(t)), nil
	case json.Number:
		return NumberFromString(t.String())
	case decimal.Decimal:
		return NewNumber(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			value, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = value
		}
		return NewList(items), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		ctx := NewContextValue()
		for _, key := range keys {
			value, err := FromAny(t[key])
			if err != nil {
				return Value{}, err
			}
			ctx.Set(key, value)
		}
		return NewContext(ctx), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}
