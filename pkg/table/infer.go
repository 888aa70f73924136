package table

import (
	"strconv"
	"time"
)

// dateLayouts are the layouts tried by [Infer] and [ParseAs], in order.
// ISO forms come first so that unambiguous input never falls through to the
// short US forms.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/06",
	"1/2/2006",
}

// Infer parses a string into the narrowest kind that accepts it, trying
// integer, then float, then date, and finally falling back to the string
// itself. Infer never fails and never returns a null: missing-value handling
// is the caller's concern.
//
//	Infer("42")      // Int(42)
//	Infer("4.5")     // Float(4.5)
//	Infer("1/22/20") // Time(2020-01-22)
//	Infer("1/22")    // String("1/22")
func Infer(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Time(t)
		}
	}
	return String(s)
}

// ParseAs parses a string as a specific kind. It returns the parsed value
// and true on success, or a zero Value and false when the string does not
// fit the requested kind. KindString always succeeds.
func ParseAs(s string, k Kind) (Value, bool) {
	switch k {
	case KindString:
		return String(s), true
	case KindInt:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), true
		}
	case KindFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), true
		}
	case KindBool:
		if b, err := strconv.ParseBool(s); err == nil {
			return Bool(b), true
		}
	case KindTime:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return Time(t), true
			}
		}
	}
	return Value{}, false
}
