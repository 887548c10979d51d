package connectors

import "strconv"

// Helpers for picking values out of decoded upstream JSON. Providers are
// inconsistent about numeric types and missing fields, so every accessor
// tolerates absence and the usual float64/int/string confusion.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func strOr(m map[string]any, key, fallback string) string {
	if s := str(m, key); s != "" {
		return s
	}
	return fallback
}

func integer(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

func float(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

func boolean(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	case float64:
		return v != 0
	default:
		return false
	}
}

func subMap(m map[string]any, key string) map[string]any {
	return asMap(m[key])
}

func subSlice(m map[string]any, key string) []any {
	return asSlice(m[key])
}

func strList(m map[string]any, key string) []string {
	items := subSlice(m, key)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
