package plan

import (
	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/sql"
)

var _ Plan = (*SelectPlan)(nil)

// SelectPlan wraps another plan with a WHERE predicate. A selection never
// costs more block accesses than its input: it filters rows as they
// stream past, rather than re-reading anything (spec §4.8).
type SelectPlan struct {
	p    Plan
	pred sql.Predicate
}

func NewSelectPlan(p Plan, pred sql.Predicate) *SelectPlan {
	return &SelectPlan{p: p, pred: pred}
}

func (sp *SelectPlan) Open() (record.Scan, error) {
	s, err := sp.p.Open()
	if err != nil {
		return nil, err
	}
	return NewSelectScan(s, sp.pred), nil
}

func (sp *SelectPlan) BlocksAccessed() int {
	return sp.p.BlocksAccessed()
}

// RecordsOutput divides the input's cardinality by the predicate's
// reduction factor, estimating how many of the input's rows survive the
// filter.
func (sp *SelectPlan) RecordsOutput() int {
	return sp.p.RecordsOutput() / sp.pred.ReductionFactor(sp.p.DistinctValues)
}

// DistinctValues refines the input's estimate using any equality the
// predicate asserts about fieldname: a field pinned to a constant has
// exactly one distinct value, and a field equated with another takes the
// smaller of the two underlying estimates.
func (sp *SelectPlan) DistinctValues(fieldname string) int {
	if _, ok := sp.pred.EquatesWithConstant(fieldname); ok {
		return 1
	}
	if other, ok := sp.pred.EquatesWithField(fieldname); ok {
		a, b := sp.p.DistinctValues(fieldname), sp.p.DistinctValues(other)
		if a < b {
			return a
		}
		return b
	}
	return sp.p.DistinctValues(fieldname)
}

func (sp *SelectPlan) Schema() record.Schema {
	return sp.p.Schema()
}
