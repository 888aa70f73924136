package table

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the type of a [Value]. Columns are not kind-homogeneous:
// each cell carries its own kind, and codecs unify kinds where an output
// format requires it.
type Kind int

const (
	// KindString is textual data. This is the fallback kind: values that fit
	// no narrower kind stay strings.
	KindString Kind = iota
	// KindInt is a 64-bit signed integer.
	KindInt
	// KindFloat is a 64-bit float.
	KindFloat
	// KindBool is a boolean.
	KindBool
	// KindTime is a calendar date or timestamp.
	KindTime
)

// String returns the lowercase name of the kind ("string", "int", "float",
// "bool", "time"). Unknown kinds return "unknown".
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// ParseKind returns the kind named by s, inverting [Kind.String]. It is used
// wherever kinds arrive as text: recipe files and CLI flags.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "string":
		return KindString, nil
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "bool":
		return KindBool, nil
	case "time":
		return KindTime, nil
	default:
		return KindString, fmt.Errorf("unknown kind: %q (expected string, int, float, bool, or time)", s)
	}
}

// Value is a single typed cell. The zero value is the empty string, which is
// distinct from the explicit missing marker created by [Null].
//
// Raw holds the underlying Go value and must match Kind: string for
// [KindString], int64 for [KindInt], float64 for [KindFloat], bool for
// [KindBool], and time.Time for [KindTime]. Use the constructor functions
// ([String], [Int], [Float], [Bool], [Time], [Null]) rather than building
// literals, so the pairing stays consistent.
type Value struct {
	Raw    any  // Underlying Go value, nil when IsNull
	Kind   Kind // Type of the value
	IsNull bool // Explicit missing marker
}

// String creates a string value.
func String(s string) Value { return Value{Raw: s, Kind: KindString} }

// Int creates an integer value.
func Int(i int64) Value { return Value{Raw: i, Kind: KindInt} }

// Float creates a float value.
func Float(f float64) Value { return Value{Raw: f, Kind: KindFloat} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{Raw: b, Kind: KindBool} }

// Time creates a time value.
func Time(t time.Time) Value { return Value{Raw: t, Kind: KindTime} }

// Null creates the explicit missing marker. It formats as the empty string
// and compares equal only to other nulls.
func Null() Value { return Value{IsNull: true} }

// Format returns the display form of the value: nulls format as "", strings
// as themselves, ints in base 10, floats in the shortest representation that
// round-trips, bools as "true"/"false", and times as "2006-01-02" (or
// "2006-01-02 15:04:05" when a clock component is present).
//
// Format strings are what codecs write and what column-merge joins operate
// on, so they are stable across releases.
func (v Value) Format() string {
	if v.IsNull {
		return ""
	}
	switch v.Kind {
	case KindString:
		s, _ := v.Raw.(string)
		return s
	case KindInt:
		i, _ := v.Raw.(int64)
		return strconv.FormatInt(i, 10)
	case KindFloat:
		f, _ := v.Raw.(float64)
		return strconv.FormatFloat(f, 'g', -1, 64)
	case KindBool:
		b, _ := v.Raw.(bool)
		return strconv.FormatBool(b)
	case KindTime:
		t, _ := v.Raw.(time.Time)
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.DateTime)
	default:
		return ""
	}
}

// Equal reports whether two values are equal. Nulls compare equal to each
// other regardless of kind. Non-null values are equal when both kind and raw
// value match; there is no cross-kind numeric comparison (Int(1) != Float(1)).
func (v Value) Equal(o Value) bool {
	if v.IsNull || o.IsNull {
		return v.IsNull && o.IsNull
	}
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == KindTime {
		a, _ := v.Raw.(time.Time)
		b, _ := o.Raw.(time.Time)
		return a.Equal(b)
	}
	return v.Raw == o.Raw
}
