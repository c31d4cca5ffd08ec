package record

import "github.com/corvidb/corvidb/sql"

// Scan is the pull-model cursor contract every relational operator in
// this engine implements: the output of a query is itself a table, read
// the same way a stored one is. Its GetVal satisfies sql.Scan
// structurally, so predicates evaluate directly against any Scan.
type Scan interface {
	BeforeFirst() error
	Next() (bool, error)
	Int(fieldname string) (int, error)
	String(fieldname string) (string, error)
	GetVal(fieldname string) (sql.Constant, error)
	HasField(fieldname string) bool
	Close()
}

// UpdateScan extends Scan with the mutating operations only a scan backed
// one-to-one by an underlying stored table can support: TableScan and
// SelectScan (over an UpdateScan) are the only implementers.
type UpdateScan interface {
	Scan
	SetInt(fieldname string, val int) error
	SetString(fieldname string, val string) error
	SetVal(fieldname string, val sql.Constant) error
	Insert() error
	Delete() error
	GetRID() RID
	MoveToRID(rid RID) error
}
