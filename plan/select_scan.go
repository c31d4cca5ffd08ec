package plan

import (
	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/sql"
)

var (
	_ record.Scan       = (*SelectScan)(nil)
	_ record.UpdateScan = (*SelectScan)(nil)
)

// SelectScan filters its input, skipping every row that does not satisfy
// pred. It forwards the mutating UpdateScan operations straight to its
// input when that input is itself updatable, so an UPDATE/DELETE with a
// WHERE clause can run its filtering and its writes through one cursor.
type SelectScan struct {
	s    record.Scan
	pred sql.Predicate
}

func NewSelectScan(s record.Scan, pred sql.Predicate) *SelectScan {
	return &SelectScan{s: s, pred: pred}
}

func (ss *SelectScan) BeforeFirst() error {
	return ss.s.BeforeFirst()
}

func (ss *SelectScan) Next() (bool, error) {
	for {
		ok, err := ss.s.Next()
		if err != nil || !ok {
			return ok, err
		}
		satisfied, err := ss.pred.IsSatisfied(ss.s)
		if err != nil {
			return false, err
		}
		if satisfied {
			return true, nil
		}
	}
}

func (ss *SelectScan) Int(fieldname string) (int, error) {
	return ss.s.Int(fieldname)
}

func (ss *SelectScan) String(fieldname string) (string, error) {
	return ss.s.String(fieldname)
}

func (ss *SelectScan) GetVal(fieldname string) (sql.Constant, error) {
	return ss.s.GetVal(fieldname)
}

func (ss *SelectScan) HasField(fieldname string) bool {
	return ss.s.HasField(fieldname)
}

func (ss *SelectScan) Close() {
	ss.s.Close()
}

func (ss *SelectScan) updateScan() record.UpdateScan {
	return ss.s.(record.UpdateScan)
}

func (ss *SelectScan) SetInt(fieldname string, val int) error {
	return ss.updateScan().SetInt(fieldname, val)
}

func (ss *SelectScan) SetString(fieldname string, val string) error {
	return ss.updateScan().SetString(fieldname, val)
}

func (ss *SelectScan) SetVal(fieldname string, val sql.Constant) error {
	return ss.updateScan().SetVal(fieldname, val)
}

func (ss *SelectScan) Insert() error {
	return ss.updateScan().Insert()
}

func (ss *SelectScan) Delete() error {
	return ss.updateScan().Delete()
}

func (ss *SelectScan) GetRID() record.RID {
	return ss.updateScan().GetRID()
}

func (ss *SelectScan) MoveToRID(rid record.RID) error {
	return ss.updateScan().MoveToRID(rid)
}
