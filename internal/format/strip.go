package format

// Strip recursively removes null/absent, empty-string, empty-slice and
// (after stripping) empty-map values from a decoded JSON-ish value
// built from map[string]any / []any / scalars. false and 0 are
// preserved (spec §4.5). Strip is idempotent: Strip(Strip(v)) == Strip(v).
func Strip(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := map[string]any{}
		for k, child := range val {
			stripped := Strip(child)
			if isEmpty(stripped) {
				continue
			}
			out[k] = stripped
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, child := range val {
			stripped := Strip(child)
			if isEmpty(stripped) {
				continue
			}
			out = append(out, stripped)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return val
	}
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
