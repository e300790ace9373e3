// Package normalizer turns loosely typed provider values into float64.
//
// Parsing is lenient: anything that cannot be read as a finite number
// collapses to the configured default instead of failing, so one bad
// field never aborts the analysis of a whole record.
package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// sentinels are strings providers use for "no value".
var sentinels = map[string]struct{}{
	"":     {},
	"none": {},
	"null": {},
	"nil":  {},
	"nan":  {},
	"-":    {},
	"--":   {},
	"—":    {},
	"n/a":  {},
	"na":   {},
}

// Lenient normalizes values, returning Default for anything unparseable.
type Lenient struct {
	Default float64
}

var zero = Lenient{}

// Float normalizes v with a zero default.
func Float(v any) float64 { return zero.Normalize(v) }

// IsPresent reports whether v normalizes to a non-zero number.
// Providers often emit 0 for a field they do not have, so zero counts as absent.
func IsPresent(v any) bool {
	if v == nil {
		return false
	}
	f, ok := parse(v)
	return ok && f != 0
}

// Normalize converts v to float64. It never panics.
func (l Lenient) Normalize(v any) float64 {
	f, ok := parse(v)
	if !ok {
		return l.Default
	}
	return f
}

func parse(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		return parseString(string(n))
	case decimal.Decimal:
		f = n.InexactFloat64()
	case *float64:
		if n == nil {
			return 0, false
		}
		f = *n
	case string:
		return parseString(n)
	case []byte:
		return parseString(string(n))
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if _, ok := sentinels[strings.ToLower(s)]; ok {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.NewReplacer(",", "", " ", "", "_", "", "\u00a0", "").Replace(s)
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}
