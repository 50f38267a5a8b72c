package graph

import (
	"fmt"
	"math"
)

// Record groups key-value pairs returned from the graph engine. Values keep
// the driver's types: integers arrive as int64 and lists as []any.
type Record map[string]any

// Int decodes key as an int.
func (r Record) Int(key string) (int, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("record: missing %q", key)
	}
	return toInt(key, v)
}

// String decodes key as a string. A missing or null value yields "".
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Ints decodes key as a list of ints, skipping null entries produced by
// optional matches.
func (r Record) Ints(key string) ([]int, error) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return nil, nil
	}
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []int64:
		items = make([]any, len(v))
		for i, x := range v {
			items[i] = x
		}
	case []int:
		return append([]int(nil), v...), nil
	default:
		return nil, fmt.Errorf("record: %q is %T, want list", key, raw)
	}

	out := make([]int, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		n, err := toInt(key, item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func toInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("record: %q is not integral: %v", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("record: %q is %T, want integer", key, v)
	}
}
