package puzzle

import (
	"strings"

	"github.com/spf13/cast"
)

// Options is the raw configuration bag for a single generation request.
// Values arrive from JSON so numbers may be float64 and flags may be strings.
type Options map[string]any

// Has reports whether key is present with a non-nil value
func (o Options) Has(key string) bool {
	if o == nil {
		return false
	}
	v, ok := o[key]
	return ok && v != nil
}

// String returns the option as a trimmed string, or def when missing or blank
func (o Options) String(key, def string) string {
	if !o.Has(key) {
		return def
	}
	s, err := cast.ToStringE(o[key])
	if err != nil {
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// Upper is String followed by upper-casing
func (o Options) Upper(key, def string) string {
	return strings.ToUpper(o.String(key, def))
}

// Int returns the option coerced to an int, or def when missing or not numeric
func (o Options) Int(key string, def int) int {
	if !o.Has(key) {
		return def
	}
	n, err := cast.ToIntE(o[key])
	if err != nil {
		return def
	}
	return n
}

// Int64 returns the option coerced to an int64, or def
func (o Options) Int64(key string, def int64) int64 {
	if !o.Has(key) {
		return def
	}
	n, err := cast.ToInt64E(o[key])
	if err != nil {
		return def
	}
	return n
}

// Float returns the option coerced to a float64, or def
func (o Options) Float(key string, def float64) float64 {
	if !o.Has(key) {
		return def
	}
	f, err := cast.ToFloat64E(o[key])
	if err != nil {
		return def
	}
	return f
}

// Bool returns the option coerced to a bool, or def
func (o Options) Bool(key string, def bool) bool {
	if !o.Has(key) {
		return def
	}
	b, err := cast.ToBoolE(o[key])
	if err != nil {
		return def
	}
	return b
}

// Seed returns the requested RNG seed; zero means "pick one"
func (o Options) Seed() int64 {
	return o.Int64("seed", 0)
}

// Answer returns the upper-cased caller answer, falling back to DefaultAnswer
func (o Options) Answer() string {
	return o.Upper("answer", DefaultAnswer)
}

// Clone returns a shallow copy safe to modify
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
