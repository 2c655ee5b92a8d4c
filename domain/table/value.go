package table

import (
	"strconv"
	"time"
)

// Kind defines the storage type for a single cell value
type Kind string

const (
	KindMissing  Kind = "missing"
	KindString   Kind = "string"
	KindNumeric  Kind = "numeric"
	KindTemporal Kind = "temporal"
)

// Value represents a typed cell with deterministic coercion semantics.
// A Value is immutable; constructors are the only way to build one.
type Value struct {
	kind Kind
	num  float64
	str  string
	ts   time.Time
}

// StringValue creates a string value; empty strings collapse to missing
func StringValue(s string) Value {
	if s == "" {
		return Value{kind: KindMissing}
	}
	return Value{kind: KindString, str: s}
}

// NumericValue creates a numeric value
func NumericValue(f float64) Value {
	return Value{kind: KindNumeric, num: f}
}

// TemporalValue creates a temporal value
func TemporalValue(t time.Time) Value {
	return Value{kind: KindTemporal, ts: t}
}

// MissingValue creates a missing value
func MissingValue() Value {
	return Value{kind: KindMissing}
}

// Kind returns the value's storage type
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell carries no value
func (v Value) IsMissing() bool { return v.kind == KindMissing || v.kind == "" }

// Float returns the numeric payload, or 0 for non-numeric values
func (v Value) Float() float64 {
	if v.kind == KindNumeric {
		return v.num
	}
	return 0
}

// Text returns the string payload, or "" for non-string values
func (v Value) Text() string {
	if v.kind == KindString {
		return v.str
	}
	return ""
}

// Time returns the temporal payload, or the zero time for non-temporal values
func (v Value) Time() time.Time {
	if v.kind == KindTemporal {
		return v.ts
	}
	return time.Time{}
}

// Render produces the canonical textual form used when persisting to CSV.
// Missing cells render empty; temporal cells render date-only when they
// carry no clock component, so a written column re-parses under the same
// date layout it was committed with.
func (v Value) Render() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumeric:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindTemporal:
		if v.ts.Hour() == 0 && v.ts.Minute() == 0 && v.ts.Second() == 0 {
			return v.ts.Format("2006-01-02")
		}
		return v.ts.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Equal reports payload equality across two values
func (v Value) Equal(other Value) bool {
	if v.IsMissing() && other.IsMissing() {
		return true
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumeric:
		return v.num == other.num
	case KindTemporal:
		return v.ts.Equal(other.ts)
	}
	return false
}
