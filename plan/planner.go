package plan

import (
	"fmt"

	"github.com/corvidb/corvidb/metadata"
	"github.com/corvidb/corvidb/sql"
	"github.com/corvidb/corvidb/tx"
)

// Planner is the single entry point the db package drives: it parses
// nothing itself, but turns an already-parsed sql.Command into either a
// Plan (for a query) or a row/catalog mutation (for everything else).
type Planner struct {
	qp QueryPlanner
	up UpdatePlanner
}

func NewPlanner(md *metadata.Manager) *Planner {
	return &Planner{
		qp: NewBasicQueryPlanner(md),
		up: NewBasicUpdatePlanner(md),
	}
}

func (pl *Planner) CreateQueryPlan(data sql.QueryData, t tx.Transaction) (Plan, error) {
	return pl.qp.CreatePlan(data, t)
}

// ExecuteUpdate dispatches an already-parsed non-query command to the
// matching UpdatePlanner method, returning the number of rows affected
// (0 for DDL).
func (pl *Planner) ExecuteUpdate(cmd sql.Command, t tx.Transaction) (int, error) {
	switch data := cmd.(type) {
	case sql.InsertData:
		return pl.up.ExecuteInsert(data, t)
	case sql.DeleteData:
		return pl.up.ExecuteDelete(data, t)
	case sql.ModifyData:
		return pl.up.ExecuteModify(data, t)
	case sql.CreateTableData:
		return 0, pl.up.ExecuteCreateTable(data, t)
	case sql.CreateViewData:
		return 0, pl.up.ExecuteCreateView(data, t)
	case sql.CreateIndexData:
		return 0, pl.up.ExecuteCreateIndex(data, t)
	default:
		return 0, fmt.Errorf("plan: unsupported command %T", cmd)
	}
}
