package completion

import (
	"encoding/json"
	"math"
	"strconv"
)

// neutralScore is used when a model returns something that is not a
// finite number at all.
const neutralScore = 5

// NormalizeScore coerces an arbitrary decoded JSON value into a Guru
// Score in [0, 10]. Values above 10 are assumed to be on a 0-100 scale
// and are divided by 10 before rounding; the result is clamped.
func NormalizeScore(v any) int {
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return neutralScore
	}
	if f > 10 {
		f = math.Round(f / 10)
	}
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
