// Package jsonval adapts values decoded by encoding/json for XML-RPC.
//
// encoding/json decodes every number as float64, which XML-RPC would send as
// <double>. Odoo expects <int> for ids and most domain operands.
package jsonval

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// Normalize converts integral float64 values into int64, recursively through
// slices and maps
func Normalize(v any) any {
	switch x := v.(type) {
	case float64:
		if x == float64(int64(x)) {
			return int64(x)
		}
		return x
	case []any:
		return NormalizeSlice(x)
	case map[string]any:
		return NormalizeMap(x)
	default:
		return v
	}
}

// NormalizeSlice is Normalize for a slice; nil stays nil
func NormalizeSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = Normalize(e)
	}
	return out
}

// NormalizeMap is Normalize for a map; nil stays nil
func NormalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, e := range m {
		out[k] = Normalize(e)
	}
	return out
}

// ParseSlice decodes a JSON array. An empty string yields nil.
func ParseSlice(s string) ([]any, error) {
	if s == "" {
		return nil, nil
	}
	var v []any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, goerr.Wrap(err, "invalid JSON array", goerr.V("input", s))
	}
	return NormalizeSlice(v), nil
}

// ParseMap decodes a JSON object. An empty string yields nil.
func ParseMap(s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, goerr.Wrap(err, "invalid JSON object", goerr.V("input", s))
	}
	return NormalizeMap(v), nil
}
