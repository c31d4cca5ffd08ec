package plan

import (
	"fmt"

	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/sql"
)

var _ record.Scan = (*ProjectScan)(nil)

// ProjectScan restricts its input to a fixed field list. It is read-only:
// a projection drops information, so there is no sensible way to write
// back through it.
type ProjectScan struct {
	s      record.Scan
	fields map[string]struct{}
}

func NewProjectScan(s record.Scan, fields []string) *ProjectScan {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return &ProjectScan{s: s, fields: set}
}

func (ps *ProjectScan) BeforeFirst() error {
	return ps.s.BeforeFirst()
}

func (ps *ProjectScan) Next() (bool, error) {
	return ps.s.Next()
}

func (ps *ProjectScan) Int(fieldname string) (int, error) {
	if !ps.HasField(fieldname) {
		return 0, fmt.Errorf("plan: field %q not in projection", fieldname)
	}
	return ps.s.Int(fieldname)
}

func (ps *ProjectScan) String(fieldname string) (string, error) {
	if !ps.HasField(fieldname) {
		return "", fmt.Errorf("plan: field %q not in projection", fieldname)
	}
	return ps.s.String(fieldname)
}

func (ps *ProjectScan) GetVal(fieldname string) (sql.Constant, error) {
	if !ps.HasField(fieldname) {
		return sql.Constant{}, fmt.Errorf("plan: field %q not in projection", fieldname)
	}
	return ps.s.GetVal(fieldname)
}

func (ps *ProjectScan) HasField(fieldname string) bool {
	_, ok := ps.fields[fieldname]
	return ok
}

func (ps *ProjectScan) Close() {
	ps.s.Close()
}
