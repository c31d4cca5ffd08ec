package sql

// Expression is either a constant or a field reference; Term compares two
// of them, and a WHERE clause is a conjunction of Terms.
type Expression struct {
	val   Constant
	fname string
}

func ConstantExpression(v Constant) Expression {
	return Expression{val: v}
}

func FieldExpression(fname string) Expression {
	return Expression{fname: fname}
}

func (e Expression) IsFieldName() bool {
	return e.fname != ""
}

func (e Expression) AsConstant() Constant {
	return e.val
}

func (e Expression) AsFieldName() string {
	return e.fname
}

// Evaluate resolves the expression against a row: a constant evaluates to
// itself, a field reference to the row's value for that field.
func (e Expression) Evaluate(s Scan) (Constant, error) {
	if e.val.IsSet() {
		return e.val, nil
	}
	return s.GetVal(e.fname)
}

// AppliesTo reports whether every field this expression references exists
// in schema; a bare constant always applies.
func (e Expression) AppliesTo(hasField func(string) bool) bool {
	if e.val.IsSet() {
		return true
	}
	return hasField(e.fname)
}

func (e Expression) String() string {
	if e.val.IsSet() {
		return e.val.String()
	}
	return e.fname
}
