package db

import (
	"fmt"

	"github.com/corvidb/corvidb/sql"
	"github.com/corvidb/corvidb/tx"
)

// Result describes the outcome of executing one statement: either a
// row-producing query (Rows set, RowsAffected zero) or a mutation
// (RowsAffected set, Rows nil).
type Result struct {
	Rows         *Rows
	RowsAffected int
}

// Exec parses and runs one SQL statement against t. The caller is
// responsible for eventually committing or rolling back t; Exec itself
// never does either, so that several statements can share one
// transaction.
func (d *DB) Exec(t tx.Transaction, statement string) (Result, error) {
	parser, err := sql.NewParser(statement)
	if err != nil {
		return Result{}, fmt.Errorf("db: parse statement: %w", err)
	}
	cmd, err := parser.Parse()
	if err != nil {
		return Result{}, fmt.Errorf("db: parse statement: %w", err)
	}

	if data, ok := cmd.(sql.QueryData); ok {
		rows, err := d.RunQuery(t, data)
		if err != nil {
			return Result{}, err
		}
		return Result{Rows: rows}, nil
	}

	n, err := d.planner.ExecuteUpdate(cmd, t)
	if err != nil {
		return Result{}, err
	}
	return Result{RowsAffected: n}, nil
}

// RunQuery plans and opens data's query, returning a cursor over its
// results.
func (d *DB) RunQuery(t tx.Transaction, data sql.QueryData) (*Rows, error) {
	p, err := d.planner.CreateQueryPlan(data, t)
	if err != nil {
		return nil, fmt.Errorf("db: plan query: %w", err)
	}
	return newRows(p)
}
