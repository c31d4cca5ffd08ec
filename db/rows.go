package db

import (
	"github.com/corvidb/corvidb/plan"
	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/sql"
)

// Rows is the cursor a caller drives to read back a query's results: a
// thin wrapper over the opened Scan that also exposes the plan's output
// schema as a column list.
type Rows struct {
	columns []string
	scan    record.Scan
}

func newRows(p plan.Plan) (*Rows, error) {
	scan, err := p.Open()
	if err != nil {
		return nil, err
	}
	return &Rows{columns: p.Schema().Fields(), scan: scan}, nil
}

// Columns returns the result's field names in projection order.
func (r *Rows) Columns() []string {
	return r.columns
}

// Next advances to the next row, returning false once the result is
// exhausted.
func (r *Rows) Next() (bool, error) {
	return r.scan.Next()
}

// Value returns column's value in the current row.
func (r *Rows) Value(column string) (sql.Constant, error) {
	return r.scan.GetVal(column)
}

// Close releases the underlying scan tree.
func (r *Rows) Close() {
	r.scan.Close()
}
