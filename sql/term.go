package sql

import "math"

// Term is an equality comparison between two expressions: the only
// comparison this SQL subset supports, per spec's conjunctive-equality
// WHERE clauses.
type Term struct {
	lhs, rhs Expression
}

func NewTerm(lhs, rhs Expression) Term {
	return Term{lhs: lhs, rhs: rhs}
}

func (t Term) IsSatisfied(s Scan) (bool, error) {
	lv, err := t.lhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	rv, err := t.rhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	return lv.Equals(rv), nil
}

// ReductionFactor estimates how much this term cuts down its input's
// record count, given a callback resolving a field's distinct-value
// estimate:
//   - field = field': the larger of the two distinct-value estimates
//   - field = const (or the reverse): that field's distinct-value estimate
//   - const = const: 1 if equal, unbounded (no matches) otherwise
func (t Term) ReductionFactor(distinctValues func(string) int) int {
	if t.lhs.IsFieldName() && t.rhs.IsFieldName() {
		l := distinctValues(t.lhs.AsFieldName())
		r := distinctValues(t.rhs.AsFieldName())
		if l > r {
			return l
		}
		return r
	}
	if t.lhs.IsFieldName() {
		return distinctValues(t.lhs.AsFieldName())
	}
	if t.rhs.IsFieldName() {
		return distinctValues(t.rhs.AsFieldName())
	}
	if t.lhs.AsConstant().Equals(t.rhs.AsConstant()) {
		return 1
	}
	return math.MaxInt32
}

// EquatesWithConstant reports whether this term is `field = constant` (or
// the symmetric form) for the given field name.
func (t Term) EquatesWithConstant(fieldname string) (Constant, bool) {
	if t.lhs.IsFieldName() && t.lhs.AsFieldName() == fieldname && !t.rhs.IsFieldName() {
		return t.rhs.AsConstant(), true
	}
	if t.rhs.IsFieldName() && t.rhs.AsFieldName() == fieldname && !t.lhs.IsFieldName() {
		return t.lhs.AsConstant(), true
	}
	return Constant{}, false
}

// EquatesWithField reports whether this term is `field = otherField` for
// the given field name, returning the other field's name.
func (t Term) EquatesWithField(fieldname string) (string, bool) {
	if t.lhs.IsFieldName() && t.lhs.AsFieldName() == fieldname && t.rhs.IsFieldName() {
		return t.rhs.AsFieldName(), true
	}
	if t.rhs.IsFieldName() && t.rhs.AsFieldName() == fieldname && t.lhs.IsFieldName() {
		return t.lhs.AsFieldName(), true
	}
	return "", false
}

// AppliesTo reports whether every field this term references passes
// hasField.
func (t Term) AppliesTo(hasField func(string) bool) bool {
	return t.lhs.AppliesTo(hasField) && t.rhs.AppliesTo(hasField)
}

func (t Term) String() string {
	return t.lhs.String() + " = " + t.rhs.String()
}
