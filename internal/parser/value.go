// # internal/parser/value.go
package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValueNumber ValueKind = iota
	ValuePair
	ValueString
)

// MetaValue is the tagged union a metadata value coerces into: a number,
// a pair of numbers, or a string. Exactly one of the payload fields is
// meaningful, selected by Kind.
type MetaValue struct {
	Kind   ValueKind
	Number float64
	Pair   [2]float64
	Str    string
}

func NumberValue(f float64) MetaValue {
	return MetaValue{Kind: ValueNumber, Number: f}
}

func PairValue(a, b float64) MetaValue {
	return MetaValue{Kind: ValuePair, Pair: [2]float64{a, b}}
}

func StringValue(s string) MetaValue {
	return MetaValue{Kind: ValueString, Str: s}
}

// CoerceValue applies the coercion policy to a raw metadata value:
//   - a single- or double-quoted token becomes its unquoted string content
//   - a comma-separated pair of numerics, parenthesized or bare, becomes
//     a pair
//   - a token that parses as a number becomes a number
//   - anything else stays the raw trimmed string
func CoerceValue(raw string) MetaValue {
	val := strings.TrimSpace(raw)

	if inner, ok := unquote(val); ok {
		return StringValue(inner)
	}

	body := val
	if strings.HasPrefix(val, "(") && strings.HasSuffix(val, ")") {
		body = strings.TrimSpace(val[1 : len(val)-1])
	}
	if parts := strings.Split(body, ","); len(parts) == 2 {
		a, errA := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errA == nil && errB == nil {
			return PairValue(a, b)
		}
	}

	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return NumberValue(f)
	}
	return StringValue(val)
}

func unquote(val string) (string, bool) {
	if len(val) < 2 {
		return "", false
	}
	if (val[0] == '\'' && val[len(val)-1] == '\'') || (val[0] == '"' && val[len(val)-1] == '"') {
		return val[1 : len(val)-1], true
	}
	return "", false
}

// Native returns the value as a plain Go type (float64, [2]float64 or
// string), used by encoders that work on generic structures.
func (v MetaValue) Native() any {
	switch v.Kind {
	case ValueNumber:
		return v.Number
	case ValuePair:
		return []float64{v.Pair[0], v.Pair[1]}
	default:
		return v.Str
	}
}

// String renders the value the way it would appear in a report: numbers
// in shortest form, pairs parenthesized.
func (v MetaValue) String() string {
	switch v.Kind {
	case ValueNumber:
		return formatFloat(v.Number)
	case ValuePair:
		return fmt.Sprintf("(%s, %s)", formatFloat(v.Pair[0]), formatFloat(v.Pair[1]))
	default:
		return v.Str
	}
}

func (v MetaValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
