package tx

import (
	"fmt"

	"github.com/corvidb/corvidb/buffer"
	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/wal"
)

// txType identifies the kind of a log record. Values are wire-stable since
// they are the first int32 of every encoded record.
type txType int

const (
	checkpointType txType = iota
	startType
	commitType
	rollbackType
	setIntType
	setStringType
)

// logRecord is one WAL entry, replayable in either direction: Undo restores
// the pre-image for a transaction that did not commit, Redo reapplies the
// post-image for one that did. Start/Commit/Rollback/CheckPoint carry no
// data to redo or undo; only SetInt/SetString do.
type logRecord interface {
	Op() txType
	TxNumber() buffer.TxID
	Undo(tx Transaction) error
	Redo(tx Transaction) error
}

// createLogRecord decodes a raw WAL record into its typed form by dispatching
// on the leading txType word.
func createLogRecord(rec []byte) (logRecord, error) {
	p := file.NewPageWithSlice(rec)
	switch txType(p.Int(0)) {
	case checkpointType:
		return newCheckpointRecord(), nil
	case startType:
		return newStartRecord(p), nil
	case commitType:
		return newCommitRecord(p), nil
	case rollbackType:
		return newRollbackRecord(p), nil
	case setIntType:
		return newSetIntRecord(p), nil
	case setStringType:
		return newSetStringRecord(p), nil
	default:
		return nil, fmt.Errorf("tx: unknown log record type %d", p.Int(0))
	}
}

// --- CheckPoint ---

type checkpointRecord struct{}

func newCheckpointRecord() *checkpointRecord { return &checkpointRecord{} }

func (r *checkpointRecord) Op() txType               { return checkpointType }
func (r *checkpointRecord) TxNumber() buffer.TxID     { return buffer.NoTx }
func (r *checkpointRecord) Undo(tx Transaction) error { return nil }
func (r *checkpointRecord) Redo(tx Transaction) error { return nil }

// logCheckpoint appends a checkpoint record and returns its LSN.
func logCheckpoint(lm *wal.Manager) (int, error) {
	buf := make([]byte, file.IntSize)
	p := file.NewPageWithSlice(buf)
	p.SetInt(0, int(checkpointType))
	return lm.Append(buf)
}

// --- Start ---

type startRecord struct {
	txnum buffer.TxID
}

func newStartRecord(p *file.Page) *startRecord {
	return &startRecord{txnum: buffer.TxID(p.Int(file.IntSize))}
}

func (r *startRecord) Op() txType               { return startType }
func (r *startRecord) TxNumber() buffer.TxID     { return r.txnum }
func (r *startRecord) Undo(tx Transaction) error { return nil }
func (r *startRecord) Redo(tx Transaction) error { return nil }

func logStart(lm *wal.Manager, txnum buffer.TxID) (int, error) {
	buf := make([]byte, 2*file.IntSize)
	p := file.NewPageWithSlice(buf)
	p.SetInt(0, int(startType))
	p.SetInt(file.IntSize, int(txnum))
	return lm.Append(buf)
}

// --- Commit ---

type commitRecord struct {
	txnum buffer.TxID
}

func newCommitRecord(p *file.Page) *commitRecord {
	return &commitRecord{txnum: buffer.TxID(p.Int(file.IntSize))}
}

func (r *commitRecord) Op() txType               { return commitType }
func (r *commitRecord) TxNumber() buffer.TxID     { return r.txnum }
func (r *commitRecord) Undo(tx Transaction) error { return nil }
func (r *commitRecord) Redo(tx Transaction) error { return nil }

func logCommit(lm *wal.Manager, txnum buffer.TxID) (int, error) {
	buf := make([]byte, 2*file.IntSize)
	p := file.NewPageWithSlice(buf)
	p.SetInt(0, int(commitType))
	p.SetInt(file.IntSize, int(txnum))
	return lm.Append(buf)
}

// --- Rollback ---

type rollbackRecord struct {
	txnum buffer.TxID
}

func newRollbackRecord(p *file.Page) *rollbackRecord {
	return &rollbackRecord{txnum: buffer.TxID(p.Int(file.IntSize))}
}

func (r *rollbackRecord) Op() txType               { return rollbackType }
func (r *rollbackRecord) TxNumber() buffer.TxID     { return r.txnum }
func (r *rollbackRecord) Undo(tx Transaction) error { return nil }
func (r *rollbackRecord) Redo(tx Transaction) error { return nil }

func logRollback(lm *wal.Manager, txnum buffer.TxID) (int, error) {
	buf := make([]byte, 2*file.IntSize)
	p := file.NewPageWithSlice(buf)
	p.SetInt(0, int(rollbackType))
	p.SetInt(file.IntSize, int(txnum))
	return lm.Append(buf)
}

// --- SetInt ---

// setIntRecord captures both the old and new value of an int field, unlike
// the single-value capture that would only support undo: a redo pass needs
// the new value to reapply the write without re-running the transaction.
type setIntRecord struct {
	txnum  buffer.TxID
	block  file.BlockID
	offset int
	oldval int
	newval int
}

func newSetIntRecord(p *file.Page) *setIntRecord {
	pos := file.IntSize
	txnum := p.Int(pos)
	pos += file.IntSize

	filename := p.String(pos)
	pos += file.MaxLength(len(filename))
	blknum := p.Int(pos)
	pos += file.IntSize
	offset := p.Int(pos)
	pos += file.IntSize
	oldval := p.Int(pos)
	pos += file.IntSize
	newval := p.Int(pos)

	return &setIntRecord{
		txnum:  buffer.TxID(txnum),
		block:  file.NewBlockID(filename, blknum),
		offset: offset,
		oldval: oldval,
		newval: newval,
	}
}

func (r *setIntRecord) Op() txType           { return setIntType }
func (r *setIntRecord) TxNumber() buffer.TxID { return r.txnum }

func (r *setIntRecord) Undo(tx Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetInt(r.block, r.offset, r.oldval, false)
}

func (r *setIntRecord) Redo(tx Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetInt(r.block, r.offset, r.newval, false)
}

// logSetInt builds and appends a SetInt record.
func logSetInt(lm *wal.Manager, txnum buffer.TxID, block file.BlockID, offset, oldval, newval int) (int, error) {
	tpos := file.IntSize
	fpos := tpos + file.IntSize
	bpos := fpos + file.MaxLength(len(block.FileName()))
	opos := bpos + file.IntSize
	oldpos := opos + file.IntSize
	newpos := oldpos + file.IntSize

	buf := make([]byte, newpos+file.IntSize)
	p := file.NewPageWithSlice(buf)
	p.SetInt(0, int(setIntType))
	p.SetInt(tpos, int(txnum))
	p.SetString(fpos, block.FileName())
	p.SetInt(bpos, block.Number())
	p.SetInt(opos, offset)
	p.SetInt(oldpos, oldval)
	p.SetInt(newpos, newval)
	return lm.Append(buf)
}

// --- SetString ---

type setStringRecord struct {
	txnum  buffer.TxID
	block  file.BlockID
	offset int
	oldval string
	newval string
}

func newSetStringRecord(p *file.Page) *setStringRecord {
	pos := file.IntSize
	txnum := p.Int(pos)
	pos += file.IntSize

	filename := p.String(pos)
	pos += file.MaxLength(len(filename))
	blknum := p.Int(pos)
	pos += file.IntSize
	offset := p.Int(pos)
	pos += file.IntSize
	oldval := p.String(pos)
	pos += file.MaxLength(len(oldval))
	newval := p.String(pos)

	return &setStringRecord{
		txnum:  buffer.TxID(txnum),
		block:  file.NewBlockID(filename, blknum),
		offset: offset,
		oldval: oldval,
		newval: newval,
	}
}

func (r *setStringRecord) Op() txType           { return setStringType }
func (r *setStringRecord) TxNumber() buffer.TxID { return r.txnum }

func (r *setStringRecord) Undo(tx Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetString(r.block, r.offset, r.oldval, false)
}

func (r *setStringRecord) Redo(tx Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetString(r.block, r.offset, r.newval, false)
}

func logSetString(lm *wal.Manager, txnum buffer.TxID, block file.BlockID, offset int, oldval, newval string) (int, error) {
	tpos := file.IntSize
	fpos := tpos + file.IntSize
	bpos := fpos + file.MaxLength(len(block.FileName()))
	opos := bpos + file.IntSize
	oldpos := opos + file.IntSize
	newpos := oldpos + file.MaxLength(len(oldval))

	buf := make([]byte, newpos+file.MaxLength(len(newval)))
	p := file.NewPageWithSlice(buf)
	p.SetInt(0, int(setStringType))
	p.SetInt(tpos, int(txnum))
	p.SetString(fpos, block.FileName())
	p.SetInt(bpos, block.Number())
	p.SetInt(opos, offset)
	p.SetString(oldpos, oldval)
	p.SetString(newpos, newval)
	return lm.Append(buf)
}
