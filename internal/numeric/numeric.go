// Package numeric holds the tolerant parsing, clamping and rounding rules
// shared by every stored document and derived value.
package numeric

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Decimal places used by the named rounding rules.
const (
	percentDecimals   = 1 // reps/weight modifiers and the values they scale
	rpeDecimals       = 1 // rpe modifier and shifted rpe values
	weightKeyDecimals = 2 // weight bucket key for rep records
)

// Float reads a decoded JSON value as a finite number. Numbers and numeric
// strings are accepted; nil, blank strings, booleans and anything that does
// not parse report false.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, false
		}
		v = t
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NullableFloat is Float with nil as the fallback.
func NullableFloat(v any) *float64 {
	f, ok := Float(v)
	if !ok {
		return nil
	}
	return &f
}

// IntOr reads v as an integer (rounded to nearest), falling back to def.
func IntOr(v any, def int) int {
	f, ok := Float(v)
	if !ok {
		return def
	}
	return int(math.Round(f))
}

// Bool reads true, "true", "1" and non-zero numbers as true.
func Bool(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(strings.ToLower(s))
	}
	b, err := cast.ToBoolE(v)
	return err == nil && b
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// RoundPercent is the 0.1 step used for percentage modifiers and for the
// reps/weight values they scale.
func RoundPercent(v float64) float64 {
	return RoundTo(v, percentDecimals)
}

// RoundRPE is the 0.1 step used for the absolute rpe modifier.
func RoundRPE(v float64) float64 {
	return RoundTo(v, rpeDecimals)
}

// RoundSetsDelta rounds a set-count delta to the nearest integer.
func RoundSetsDelta(v float64) int {
	return int(math.Round(v))
}

// WeightKey buckets a weight to two decimals for use as a map key.
func WeightKey(w float64) string {
	return cast.ToString(RoundTo(w, weightKeyDecimals))
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat limits v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Ptr returns a pointer to a copy of v.
func Ptr(v float64) *float64 {
	return &v
}

// Copy returns an independent copy of a nullable value.
func Copy(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
