package vm

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Runtime values
// ---------------------------------------------------------------------------

// ValueKind discriminates the runtime value variants.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindNumber
	KindString
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is one runtime value: the contents of a register slot or a
// constant-table entry. Values never hold AST fragments.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Flag bool
}

// Pre-defined special values.
var (
	Nil   = Value{Kind: KindNil}
	True  = Value{Kind: KindBool, Flag: true}
	False = Value{Kind: KindBool}
)

// NumberValue creates a number value.
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// StringValue creates a string value.
func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// BoolValue creates a boolean value.
func BoolValue(b bool) Value {
	if b {
		return True
	}
	return False
}

// IsNumber reports whether v is a number.
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindBool:
		return v.Flag == o.Flag
	}
	return true // both nil
}

// String returns the display form of the value.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	case KindBool:
		if v.Flag {
			return "true"
		}
		return "false"
	}
	return fmt.Sprintf("Value(%d)", int(v.Kind))
}
