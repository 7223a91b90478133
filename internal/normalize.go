package internal

import (
	"fmt"
	"strconv"
)

// normalizeAny renders an arbitrary Go value as the text an invocation
// should expand to. Strings pass through unchanged; numeric and boolean
// values use their canonical textual form; everything else falls back
// to fmt's default formatting, matching ValueAny's documented behavior.
func normalizeAny(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
