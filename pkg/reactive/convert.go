package reactive

import (
	"fmt"
	"math"
)

// Convert validates v against the type T and returns it typed.
//
// nil converts to the zero value of T. Numbers widen between Go numeric
// kinds as long as no precision is lost (a float is accepted for an integer
// field only when it is integral). Lists of strings arrive as []any from the
// wire and are accepted element-wise. Anything else must already be a T.
func Convert[T any](v any) (T, error) {
	var out T
	if v == nil {
		return out, nil
	}
	if typed, ok := v.(T); ok {
		return typed, nil
	}

	switch p := any(&out).(type) {
	case *float64:
		f, ok := toFloat64(v)
		if !ok {
			return out, mismatch(v, out)
		}
		*p = f
	case *float32:
		f, ok := toFloat64(v)
		if !ok || (!math.IsNaN(f) && float64(float32(f)) != f) {
			return out, mismatch(v, out)
		}
		*p = float32(f)
	case *int:
		i, ok := toInt64(v)
		if !ok {
			return out, mismatch(v, out)
		}
		*p = int(i)
	case *int64:
		i, ok := toInt64(v)
		if !ok {
			return out, mismatch(v, out)
		}
		*p = i
	case *int32:
		i, ok := toInt64(v)
		if !ok || i < math.MinInt32 || i > math.MaxInt32 {
			return out, mismatch(v, out)
		}
		*p = int32(i)
	case *[]string:
		list, ok := v.([]any)
		if !ok {
			return out, mismatch(v, out)
		}
		strs := make([]string, 0, len(list))
		for _, e := range list {
			s, ok := e.(string)
			if !ok {
				return out, mismatch(v, out)
			}
			strs = append(strs, s)
		}
		*p = strs
	case *map[string]any:
		m, ok := v.(interface{ ToMap() map[string]any })
		if !ok {
			return out, mismatch(v, out)
		}
		*p = m.ToMap()
	default:
		return out, mismatch(v, out)
	}
	return out, nil
}

func mismatch(v, want any) error {
	return fmt.Errorf("%w: got %T, want %T", ErrTypeMismatch, v, want)
}

// toFloat64 converts any numeric value (including json.Number) to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// toInt64 converts an integral numeric value to int64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	f, ok := toFloat64(v)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
