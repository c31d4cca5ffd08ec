package sql

import (
	"fmt"
	"strconv"
)

// Constant is a literal SQL value: either an integer or a string. It is
// the currency that Expression.Evaluate and every Scan.GetVal deal in.
type Constant struct {
	isInt  bool
	isSet  bool
	intVal int
	strVal string
}

// IntConstant wraps an integer literal.
func IntConstant(v int) Constant {
	return Constant{isInt: true, isSet: true, intVal: v}
}

// StringConstant wraps a string literal.
func StringConstant(v string) Constant {
	return Constant{isSet: true, strVal: v}
}

// IsSet reports whether this Constant carries a value, as opposed to the
// zero value used as a "no constant here" sentinel.
func (c Constant) IsSet() bool {
	return c.isSet
}

func (c Constant) IsInt() bool {
	return c.isInt
}

func (c Constant) AsInt() int {
	return c.intVal
}

func (c Constant) AsString() string {
	return c.strVal
}

func (c Constant) Equals(other Constant) bool {
	if c.isInt != other.isInt {
		return false
	}
	if c.isInt {
		return c.intVal == other.intVal
	}
	return c.strVal == other.strVal
}

func (c Constant) String() string {
	if c.isInt {
		return strconv.Itoa(c.intVal)
	}
	return fmt.Sprintf("'%s'", c.strVal)
}
