package core

import (
	"fmt"
	"maps"
)

// Params maps argument names to values for one action call.
type Params map[string]any

// Data is the payload mapping returned by a successful action.
type Data map[string]any

// Clone returns a shallow copy.
func (p Params) Clone() Params { return maps.Clone(p) }

// Has reports whether key is present with a non-nil value.
func (p Params) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns a required string parameter.
func (p Params) String(key string) (string, error) {
	return Get[string](p, key)
}

// StringOr returns the string parameter or def when it is absent or empty.
func (p Params) StringOr(key, def string) string {
	s, err := Get[string](p, key)
	if err != nil || s == "" {
		return def
	}
	return s
}

// IntOr returns an integer parameter, accepting the numeric types JSON
// decoding and Go literals produce, or def when absent.
func (p Params) IntOr(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Get returns the parameter stored under key as T.
func Get[T any](p map[string]any, key string) (T, error) {
	var zero T
	v, ok := p[key]
	if !ok || v == nil {
		return zero, fmt.Errorf("%w: missing %q", ErrInvalidParam, key)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, want %T", ErrInvalidParam, key, v, zero)
	}
	return t, nil
}
