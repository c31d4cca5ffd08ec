package record

import (
	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/sql"
	"github.com/corvidb/corvidb/tx"
)

var _ UpdateScan = (*TableScan)(nil)

// TableScan is a cursor over every block of one table's heap file,
// hiding the block/slot structure behind the Scan/UpdateScan contract.
// Each instance holds exactly one RecordPage pinned at a time; advancing
// past its last slot unpins it and pins the next block's page in its
// place, so a single pass touches each block exactly once.
type TableScan struct {
	t           tx.Transaction
	layout      Layout
	filename    string
	rp          *RecordPage
	currentSlot int
}

// NewTableScan opens tablename+".tbl", appending and formatting a first
// block if the file is empty.
func NewTableScan(t tx.Transaction, tablename string, layout Layout) (*TableScan, error) {
	ts := &TableScan{
		t:        t,
		layout:   layout,
		filename: tablename + ".tbl",
	}

	size, err := t.Size(ts.filename)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		if err := ts.moveToNewBlock(); err != nil {
			return nil, err
		}
	} else {
		if err := ts.moveToBlock(0); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

func (ts *TableScan) BeforeFirst() error {
	return ts.moveToBlock(0)
}

func (ts *TableScan) Close() {
	if ts.rp != nil {
		ts.rp.Close()
	}
}

// Next advances to the next used slot in the current block, moving to
// successive blocks as each is exhausted. It returns false once the last
// block's last slot has been passed.
func (ts *TableScan) Next() (bool, error) {
	for {
		slot, err := ts.rp.NextAfter(ts.currentSlot)
		if err != nil {
			return false, err
		}
		if slot >= 0 {
			ts.currentSlot = slot
			return true, nil
		}

		atLast, err := ts.isAtLastBlock()
		if err != nil {
			return false, err
		}
		if atLast {
			return false, nil
		}
		if err := ts.moveToBlock(ts.rp.Block().Number() + 1); err != nil {
			return false, err
		}
	}
}

func (ts *TableScan) Int(fieldname string) (int, error) {
	return ts.rp.Int(ts.currentSlot, fieldname)
}

func (ts *TableScan) String(fieldname string) (string, error) {
	return ts.rp.String(ts.currentSlot, fieldname)
}

func (ts *TableScan) GetVal(fieldname string) (sql.Constant, error) {
	switch ts.layout.Schema().Type(fieldname) {
	case file.INTEGER:
		v, err := ts.Int(fieldname)
		if err != nil {
			return sql.Constant{}, err
		}
		return sql.IntConstant(v), nil
	default:
		v, err := ts.String(fieldname)
		if err != nil {
			return sql.Constant{}, err
		}
		return sql.StringConstant(v), nil
	}
}

func (ts *TableScan) HasField(fieldname string) bool {
	return ts.layout.Schema().HasField(fieldname)
}

func (ts *TableScan) SetInt(fieldname string, val int) error {
	return ts.rp.SetInt(ts.currentSlot, fieldname, val)
}

func (ts *TableScan) SetString(fieldname string, val string) error {
	return ts.rp.SetString(ts.currentSlot, fieldname, val)
}

func (ts *TableScan) SetVal(fieldname string, val sql.Constant) error {
	switch ts.layout.Schema().Type(fieldname) {
	case file.INTEGER:
		return ts.SetInt(fieldname, val.AsInt())
	default:
		return ts.SetString(fieldname, val.AsString())
	}
}

// Insert finds the next empty slot from the current position, appending
// and formatting a fresh block at end-of-file if none remains.
func (ts *TableScan) Insert() error {
	for {
		slot, err := ts.rp.InsertAfter(ts.currentSlot)
		if err != nil {
			return err
		}
		if slot >= 0 {
			ts.currentSlot = slot
			return nil
		}

		atLast, err := ts.isAtLastBlock()
		if err != nil {
			return err
		}
		if atLast {
			if err := ts.moveToNewBlock(); err != nil {
				return err
			}
		} else {
			if err := ts.moveToBlock(ts.rp.Block().Number() + 1); err != nil {
				return err
			}
		}
	}
}

func (ts *TableScan) Delete() error {
	return ts.rp.Delete(ts.currentSlot)
}

func (ts *TableScan) MoveToRID(rid RID) error {
	ts.Close()
	block := file.NewBlockID(ts.filename, rid.BlockNum)
	rp, err := NewRecordPage(ts.t, block, ts.layout)
	if err != nil {
		return err
	}
	ts.rp = rp
	ts.currentSlot = rid.Slot
	return nil
}

func (ts *TableScan) GetRID() RID {
	return NewRID(ts.rp.Block().Number(), ts.currentSlot)
}

func (ts *TableScan) moveToBlock(blocknum int) error {
	ts.Close()
	block := file.NewBlockID(ts.filename, blocknum)
	rp, err := NewRecordPage(ts.t, block, ts.layout)
	if err != nil {
		return err
	}
	ts.rp = rp
	ts.currentSlot = -1
	return nil
}

func (ts *TableScan) moveToNewBlock() error {
	ts.Close()
	block, err := ts.t.Append(ts.filename)
	if err != nil {
		return err
	}
	rp, err := NewRecordPage(ts.t, block, ts.layout)
	if err != nil {
		return err
	}
	ts.rp = rp
	if err := ts.rp.Format(); err != nil {
		return err
	}
	ts.currentSlot = -1
	return nil
}

func (ts *TableScan) isAtLastBlock() (bool, error) {
	size, err := ts.t.Size(ts.filename)
	if err != nil {
		return false, err
	}
	return ts.rp.Block().Number() == size-1, nil
}
