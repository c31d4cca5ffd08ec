package plan

import (
	"github.com/corvidb/corvidb/metadata"
	"github.com/corvidb/corvidb/sql"
	"github.com/corvidb/corvidb/tx"
)

// QueryPlanner turns a parsed SELECT into a Plan tree.
type QueryPlanner interface {
	CreatePlan(data sql.QueryData, t tx.Transaction) (Plan, error)
}

var _ QueryPlanner = (*BasicQueryPlanner)(nil)

// BasicQueryPlanner builds a left-deep join tree: each table (or
// recursively expanded view) becomes a plan, and the plans are folded into
// ProductPlans in FROM order, before the WHERE predicate and the field list
// are applied on top (spec §4.8).
type BasicQueryPlanner struct {
	md *metadata.Manager
}

func NewBasicQueryPlanner(md *metadata.Manager) *BasicQueryPlanner {
	return &BasicQueryPlanner{md: md}
}

func (qp *BasicQueryPlanner) CreatePlan(data sql.QueryData, t tx.Transaction) (Plan, error) {
	plans := make([]Plan, 0, len(data.Tables()))
	for _, tblname := range data.Tables() {
		p, err := qp.planTableOrView(tblname, t)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	current := plans[0]
	for _, p := range plans[1:] {
		current = NewProductPlan(current, p)
	}

	current = NewSelectPlan(current, data.Predicate())
	return NewProjectPlan(current, data.Fields()), nil
}

func (qp *BasicQueryPlanner) planTableOrView(tblname string, t tx.Transaction) (Plan, error) {
	viewdef, err := qp.md.GetViewDef(tblname, t)
	if err != nil {
		return NewTablePlan(t, tblname, qp.md)
	}
	parser, err := sql.NewParser(viewdef)
	if err != nil {
		return nil, err
	}
	viewData, err := parser.Query()
	if err != nil {
		return nil, err
	}
	return qp.CreatePlan(viewData, t)
}
