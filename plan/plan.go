// Package plan implements the cost-estimating query planner: a tree of
// Plan nodes that each estimate their own output size before any scan
// runs, and can open themselves into a pull-model Scan tree (spec §4.8).
package plan

import (
	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/sql"
)

// Plan is implemented by every node of a query plan: it knows its output
// schema and can estimate its own cost without executing anything, and it
// can open the Scan tree that actually produces rows.
type Plan interface {
	Open() (record.Scan, error)
	BlocksAccessed() int
	RecordsOutput() int
	DistinctValues(fieldname string) int
	Schema() record.Schema
}
