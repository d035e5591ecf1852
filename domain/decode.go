package domain

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/cvmesh/core"
)

// Decode reads params[key] as T. Values already of type T (or *T) are
// returned as is; anything else is converted through its JSON form.
func Decode[T any](params map[string]any, key string) (T, error) {
	var zero T
	v, ok := params[key]
	if !ok || v == nil {
		return zero, fmt.Errorf("%w: missing %q", core.ErrInvalidParam, key)
	}
	switch t := v.(type) {
	case T:
		return t, nil
	case *T:
		if t != nil {
			return *t, nil
		}
		return zero, fmt.Errorf("%w: %q is nil", core.ErrInvalidParam, key)
	}
	out, err := convert[T](v)
	if err != nil {
		return zero, fmt.Errorf("%w: %q: %v", core.ErrInvalidParam, key, err)
	}
	return out, nil
}

// DecodeOr is Decode for optional parameters.
func DecodeOr[T any](params map[string]any, key string, def T) T {
	if v, ok := params[key]; !ok || v == nil {
		return def
	}
	out, err := Decode[T](params, key)
	if err != nil {
		return def
	}
	return out
}

// DecodeData converts a whole payload mapping into T through its JSON form.
func DecodeData[T any](data map[string]any) (T, error) {
	return convert[T](data)
}

func convert[T any](v any) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}
	return out, nil
}

// ToMap converts v into its JSON-shaped mapping form.
func ToMap(v any) (map[string]any, error) {
	return convert[map[string]any](v)
}
