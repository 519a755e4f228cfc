package sqlmodel

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
)

// ParamKind is the bind kind of a Param
type ParamKind int

const (
	// ParamInvalid is the kind of the zero Param
	ParamInvalid ParamKind = iota
	// ParamInteger binds a 64-bit signed integer
	ParamInteger
	// ParamBoolean binds a boolean
	ParamBoolean
	// ParamNull binds SQL NULL
	ParamNull
	// ParamString binds text
	ParamString
)

// String returns the string representation of ParamKind
func (k ParamKind) String() string {
	switch k {
	case ParamInteger:
		return "integer"
	case ParamBoolean:
		return "boolean"
	case ParamNull:
		return "null"
	case ParamString:
		return "string"
	default:
		return "invalid"
	}
}

// Param is a typed query parameter. Only the constructors below produce
// valid values; the zero Param has kind ParamInvalid.
type Param struct {
	kind ParamKind
	i    int64
	b    bool
	s    string
}

// IntParam returns an integer parameter
func IntParam(v int64) Param { return Param{kind: ParamInteger, i: v} }

// BoolParam returns a boolean parameter
func BoolParam(v bool) Param { return Param{kind: ParamBoolean, b: v} }

// NullParam returns an SQL NULL parameter
func NullParam() Param { return Param{kind: ParamNull} }

// StringParam returns a text parameter
func StringParam(v string) Param { return Param{kind: ParamString, s: v} }

// NewParam converts a Go value into a Param. Integers of every size, bool,
// string and nil are accepted; anything else returns ErrInvalidParameterType.
func NewParam(v any) (Param, error) {
	switch x := v.(type) {
	case nil:
		return NullParam(), nil
	case Param:
		if x.kind == ParamInvalid {
			return Param{}, fmt.Errorf("%w: zero Param", ErrInvalidParameterType)
		}
		return x, nil
	case int:
		return IntParam(int64(x)), nil
	case int8:
		return IntParam(int64(x)), nil
	case int16:
		return IntParam(int64(x)), nil
	case int32:
		return IntParam(int64(x)), nil
	case int64:
		return IntParam(x), nil
	case uint:
		return uintParam(uint64(x))
	case uint8:
		return IntParam(int64(x)), nil
	case uint16:
		return IntParam(int64(x)), nil
	case uint32:
		return IntParam(int64(x)), nil
	case uint64:
		return uintParam(x)
	case bool:
		return BoolParam(x), nil
	case string:
		return StringParam(x), nil
	default:
		return Param{}, fmt.Errorf("%w: %T", ErrInvalidParameterType, v)
	}
}

func uintParam(v uint64) (Param, error) {
	if v > math.MaxInt64 {
		return Param{}, fmt.Errorf("%w: %d overflows int64", ErrInvalidParameterType, v)
	}
	return IntParam(int64(v)), nil
}

// Kind returns the bind kind
func (p Param) Kind() ParamKind { return p.kind }

// IsNull reports whether p binds SQL NULL
func (p Param) IsNull() bool { return p.kind == ParamNull }

// Value implements driver.Valuer
func (p Param) Value() (driver.Value, error) {
	switch p.kind {
	case ParamInteger:
		return p.i, nil
	case ParamBoolean:
		return p.b, nil
	case ParamNull:
		return nil, nil
	case ParamString:
		return p.s, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBindKind, p.kind)
	}
}

// String returns a printable form of the parameter for logs
func (p Param) String() string {
	switch p.kind {
	case ParamInteger:
		return strconv.FormatInt(p.i, 10)
	case ParamBoolean:
		return strconv.FormatBool(p.b)
	case ParamNull:
		return "NULL"
	case ParamString:
		return strconv.Quote(p.s)
	default:
		return "<invalid>"
	}
}
