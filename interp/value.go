package interp

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Runtime values for the tree-walking path
// ---------------------------------------------------------------------------

// Kind discriminates the runtime value variants.
type Kind int

const (
	KindNil Kind = iota
	KindNumber
	KindString
	KindBool
)

func (k Kind) String() string {
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
	return fmt.Sprintf("Kind(%d)", int(k))
}

// RuntimeVal is the interpreter's result type: a string, a 64-bit float,
// a boolean or nil. It never holds an AST fragment.
type RuntimeVal struct {
	Kind Kind
	Num  float64
	Str  string
	Flag bool
}

// Pre-defined special values.
var (
	Nil   = RuntimeVal{Kind: KindNil}
	True  = RuntimeVal{Kind: KindBool, Flag: true}
	False = RuntimeVal{Kind: KindBool}
)

// NumberVal creates a number value.
func NumberVal(n float64) RuntimeVal {
	return RuntimeVal{Kind: KindNumber, Num: n}
}

// StringVal creates a string value.
func StringVal(s string) RuntimeVal {
	return RuntimeVal{Kind: KindString, Str: s}
}

// BoolVal creates a boolean value.
func BoolVal(b bool) RuntimeVal {
	if b {
		return True
	}
	return False
}

// IsNumber reports whether v is a number.
func (v RuntimeVal) IsNumber() bool { return v.Kind == KindNumber }

// Equal reports whether two values have the same kind and payload.
func (v RuntimeVal) Equal(o RuntimeVal) bool {
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
func (v RuntimeVal) String() string {
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
	return fmt.Sprintf("RuntimeVal(%d)", int(v.Kind))
}
