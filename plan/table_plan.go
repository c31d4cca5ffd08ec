package plan

import (
	"github.com/corvidb/corvidb/metadata"
	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/tx"
)

var _ Plan = (*TablePlan)(nil)

// TablePlan is the leaf of every plan tree: a single heap table, whose
// cost and cardinality come straight from the statistics manager.
type TablePlan struct {
	t        tx.Transaction
	tblname  string
	layout   record.Layout
	statInfo metadata.StatInfo
}

// NewTablePlan fetches tblname's layout and current statistics once, up
// front, so that every cost estimate below this node in the tree is
// answered without touching the transaction again.
func NewTablePlan(t tx.Transaction, tblname string, md *metadata.Manager) (*TablePlan, error) {
	layout, err := md.Layout(tblname, t)
	if err != nil {
		return nil, err
	}
	si, err := md.Stat.StatInfo(tblname, layout, t)
	if err != nil {
		return nil, err
	}
	return &TablePlan{t: t, tblname: tblname, layout: layout, statInfo: si}, nil
}

func (tp *TablePlan) Open() (record.Scan, error) {
	return record.NewTableScan(tp.t, tp.tblname, tp.layout)
}

func (tp *TablePlan) BlocksAccessed() int {
	return tp.statInfo.NumBlocks
}

func (tp *TablePlan) RecordsOutput() int {
	return tp.statInfo.NumRecords
}

func (tp *TablePlan) DistinctValues(fieldname string) int {
	return tp.statInfo.DistinctValues(fieldname)
}

func (tp *TablePlan) Schema() record.Schema {
	return tp.layout.Schema()
}
