package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ContextValue is an ordered key/value mapping, the payload of a
// KindContext value. Keys preserve first-insertion order; setting an
// existing key replaces the value in place, so a duplicate key in a
// literal resolves to its last value while keeping the original slot.
type ContextValue struct {
	Keys   []string
	Values map[string]Value
}

// NewContextValue creates an empty context.
func NewContextValue() *ContextValue {
	return &ContextValue{
		Values: make(map[string]Value),
	}
}

// Set stores value under key, replacing any previous value. The key
// keeps its first-insertion position.
func (c *ContextValue) Set(key string, value Value) {
	if _, exists := c.Values[key]; !exists {
		c.Keys = append(c.Keys, key)
	}
	c.Values[key] = value
}

// Get returns the value for key and whether it is present.
func (c *ContextValue) Get(key string) (Value, bool) {
	value, ok := c.Values[key]
	return value, ok
}

// Len returns the number of entries.
func (c *ContextValue) Len() int {
	return len(c.Keys)
}

func (c *ContextValue) equal(other *ContextValue) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.Keys) != len(other.Keys) {
		return false
	}
	for key, value := range c.Values {
		otherValue, ok := other.Values[key]
		if !ok || !value.Equal(otherValue) {
			return false
		}
	}
	return true
}

// MarshalJSON serializes the context preserving key order.
func (c *ContextValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valueJSON, err := json.Marshal(c.Values[key].ToAny())
		if err != nil {
			return nil, err
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the context for diagnostics.
func (c *ContextValue) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, key := range c.Keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(c.Values[key].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
