package plan

import "github.com/corvidb/corvidb/record"

var _ Plan = (*ProjectPlan)(nil)

// ProjectPlan restricts its input's schema to fieldlist. Projection
// touches no extra blocks and drops no rows, so its cost estimates pass
// straight through from the input.
type ProjectPlan struct {
	p      Plan
	schema record.Schema
}

func NewProjectPlan(p Plan, fieldlist []string) *ProjectPlan {
	schema := record.NewSchema()
	for _, f := range fieldlist {
		schema.Add(f, p.Schema())
	}
	return &ProjectPlan{p: p, schema: schema}
}

func (pp *ProjectPlan) Open() (record.Scan, error) {
	s, err := pp.p.Open()
	if err != nil {
		return nil, err
	}
	return NewProjectScan(s, pp.schema.Fields()), nil
}

func (pp *ProjectPlan) BlocksAccessed() int {
	return pp.p.BlocksAccessed()
}

func (pp *ProjectPlan) RecordsOutput() int {
	return pp.p.RecordsOutput()
}

func (pp *ProjectPlan) DistinctValues(fieldname string) int {
	return pp.p.DistinctValues(fieldname)
}

func (pp *ProjectPlan) Schema() record.Schema {
	return pp.schema
}
