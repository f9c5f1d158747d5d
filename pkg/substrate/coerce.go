package substrate

import (
	"math"
	"strconv"
	"strings"
)

// AsString coerces a loosely typed payload field to a display string.
// It never fails: nil, unsupported types, and whitespace-only values
// all coerce to the empty string.
func AsString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case bool:
		return strconv.FormatBool(s)
	case float64:
		// JSON numbers decode as float64. Render integral values without
		// a fractional part so ids like 42 do not display as "42.000000".
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

// FloatOr returns the pointed-to value, or def when the field is absent.
func FloatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
