package debug

import (
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	// KindNumber is a float64 value.
	KindNumber ValueKind = iota
	// KindBoolean is a bool value.
	KindBoolean
	// KindString is a string value.
	KindString
	// KindList is an ordered list of variables.
	KindList
)

// String returns a string representation of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a tagged union of the values a RuntimeVariable can hold.
// The zero Value is the number 0.
type Value struct {
	kind    ValueKind
	number  float64
	boolean bool
	str     string
	list    []*Variable
}

// NumberValue returns a number value.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, number: f}
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value {
	return Value{kind: KindBoolean, boolean: b}
}

// StringValue returns a string value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// ListValue returns a list value holding vars in order.
func ListValue(vars ...*Variable) Value {
	return Value{kind: KindList, list: vars}
}

// Kind returns the variant held.
func (v Value) Kind() ValueKind { return v.kind }

// Number returns the number held, if any.
func (v Value) Number() (float64, bool) { return v.number, v.kind == KindNumber }

// Bool returns the boolean held, if any.
func (v Value) Bool() (bool, bool) { return v.boolean, v.kind == KindBoolean }

// Str returns the string held, if any.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// List returns the variables held, if any.
func (v Value) List() ([]*Variable, bool) { return v.list, v.kind == KindList }

// String formats the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		return strconv.FormatBool(v.boolean)
	case KindString:
		return strconv.Quote(v.str)
	case KindList:
		parts := make([]string, len(v.list))
		for i, child := range v.list {
			parts[i] = child.Name + ": " + child.value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	}
}

// Variable is a named runtime value.
//
// The byte view returned by Memory is derived from a string value, cached
// and dropped whenever SetValue replaces the value.
type Variable struct {
	// Name is the variable name.
	Name string

	// Reference identifies a list value for inspectors, 0 when unset.
	Reference int

	value  Value
	memory []byte
}

// NewVariable creates a variable.
func NewVariable(name string, value Value) *Variable {
	return &Variable{Name: name, value: value}
}

// Value returns the current value.
func (v *Variable) Value() Value {
	return v.value
}

// SetValue replaces the value and invalidates the cached byte view.
func (v *Variable) SetValue(value Value) {
	v.value = value
	v.memory = nil
}

// Memory returns the bytes of a string value, or nil for other kinds.
func (v *Variable) Memory() []byte {
	if v.memory == nil {
		s, ok := v.value.Str()
		if !ok {
			return nil
		}
		v.memory = []byte(s)
	}
	return v.memory
}

// SetMemory writes data into the byte view at offset and re-derives the
// string value from it. Writes past the end are truncated. It returns the
// number of bytes written, 0 if the value is not a string.
func (v *Variable) SetMemory(offset int, data []byte) int {
	mem := v.Memory()
	if mem == nil || offset < 0 || offset > len(mem) {
		return 0
	}
	n := copy(mem[offset:], data)
	v.value = StringValue(string(mem))
	return n
}

// parseLiteral converts an assignment literal into a value. Aggregates
// are not parsed; every brace literal yields the same demonstration
// structure.
func parseLiteral(literal string) Value {
	switch {
	case strings.EqualFold(literal, "true"):
		return BoolValue(true)
	case strings.EqualFold(literal, "false"):
		return BoolValue(false)
	case strings.HasPrefix(literal, `"`):
		return StringValue(strings.TrimSuffix(strings.TrimPrefix(literal, `"`), `"`))
	case strings.HasPrefix(literal, "{"):
		return ListValue(
			NewVariable("fBool", BoolValue(true)),
			NewVariable("fInteger", NumberValue(123)),
			NewVariable("fString", StringValue("hello")),
			NewVariable("flazyInteger", NumberValue(321)),
		)
	default:
		f, _ := strconv.ParseFloat(literal, 64)
		return NumberValue(f)
	}
}

// characterValue is the placeholder held by a declared character.
func characterValue() Value {
	return ListValue(
		NewVariable("value", NumberValue(0)),
		NewVariable("stack", ListValue()),
	)
}
