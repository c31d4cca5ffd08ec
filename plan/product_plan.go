package plan

import "github.com/corvidb/corvidb/record"

var _ Plan = (*ProductPlan)(nil)

// ProductPlan is the cross join of two plans. Its BlocksAccessed rule is
// why join order matters: scanning p2 once per row of p1 means p1 should
// be the smaller, more selective side (spec §4.8).
type ProductPlan struct {
	p1, p2 Plan
	schema record.Schema
}

func NewProductPlan(p1, p2 Plan) *ProductPlan {
	schema := record.NewSchema()
	schema.AddAll(p1.Schema())
	schema.AddAll(p2.Schema())
	return &ProductPlan{p1: p1, p2: p2, schema: schema}
}

func (pp *ProductPlan) Open() (record.Scan, error) {
	s1, err := pp.p1.Open()
	if err != nil {
		return nil, err
	}
	s2, err := pp.p2.Open()
	if err != nil {
		return nil, err
	}
	return NewProductScan(s1, s2)
}

func (pp *ProductPlan) BlocksAccessed() int {
	return pp.p1.BlocksAccessed() + pp.p1.RecordsOutput()*pp.p2.BlocksAccessed()
}

func (pp *ProductPlan) RecordsOutput() int {
	return pp.p1.RecordsOutput() * pp.p2.RecordsOutput()
}

func (pp *ProductPlan) DistinctValues(fieldname string) int {
	if pp.p1.Schema().HasField(fieldname) {
		return pp.p1.DistinctValues(fieldname)
	}
	return pp.p2.DistinctValues(fieldname)
}

func (pp *ProductPlan) Schema() record.Schema {
	return pp.schema
}
