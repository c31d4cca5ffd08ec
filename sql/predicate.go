package sql

import "strings"

// Predicate is a conjunction of Terms: the WHERE clause's semantics under
// this engine's SQL subset, which supports only `AND`-joined equalities.
type Predicate struct {
	terms []Term
}

// EmptyPredicate is always satisfied; it is the predicate of a query with
// no WHERE clause.
func EmptyPredicate() Predicate {
	return Predicate{}
}

func NewPredicate(t Term) Predicate {
	return Predicate{terms: []Term{t}}
}

// ConjoinWith appends other's terms to this predicate's conjunction.
func (p *Predicate) ConjoinWith(other Predicate) {
	p.terms = append(p.terms, other.terms...)
}

func (p Predicate) IsSatisfied(s Scan) (bool, error) {
	for _, t := range p.terms {
		ok, err := t.IsSatisfied(s)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ReductionFactor is the product of each term's own reduction factor: the
// combined selectivity of a conjunction of independent equalities.
func (p Predicate) ReductionFactor(distinctValues func(string) int) int {
	factor := 1
	for _, t := range p.terms {
		factor *= t.ReductionFactor(distinctValues)
	}
	return factor
}

// SelectSubPredicate returns the terms of p that apply entirely within
// hasField, for pushing a selection down to one side of a join.
func (p Predicate) SelectSubPredicate(hasField func(string) bool) (Predicate, bool) {
	var out Predicate
	for _, t := range p.terms {
		if t.AppliesTo(hasField) {
			out.terms = append(out.terms, t)
		}
	}
	return out, len(out.terms) > 0
}

// JoinSubPredicate returns the terms of p that apply to the joined schema
// but to neither side alone: the terms a join must evaluate itself.
func (p Predicate) JoinSubPredicate(hasJoinedField, hasFirstField, hasSecondField func(string) bool) (Predicate, bool) {
	var out Predicate
	for _, t := range p.terms {
		if !t.AppliesTo(hasFirstField) && !t.AppliesTo(hasSecondField) && t.AppliesTo(hasJoinedField) {
			out.terms = append(out.terms, t)
		}
	}
	return out, len(out.terms) > 0
}

func (p Predicate) EquatesWithConstant(fieldname string) (Constant, bool) {
	for _, t := range p.terms {
		if c, ok := t.EquatesWithConstant(fieldname); ok {
			return c, true
		}
	}
	return Constant{}, false
}

func (p Predicate) EquatesWithField(fieldname string) (string, bool) {
	for _, t := range p.terms {
		if f, ok := t.EquatesWithField(fieldname); ok {
			return f, true
		}
	}
	return "", false
}

func (p Predicate) IsEmpty() bool {
	return len(p.terms) == 0
}

func (p Predicate) String() string {
	parts := make([]string, len(p.terms))
	for i, t := range p.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " and ")
}
