// Package tx implements the transaction layer: write-ahead logged,
// undo-redo recoverable, strictly two-phase locked access to pages shared
// through the buffer pool.
package tx

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/corvidb/corvidb/buffer"
	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/wal"
)

// endOfFile is the block number of the per-file sentinel BlockID that Size
// locks shared and Append locks exclusive, so that extending a file is
// serialized against reading its length. The sentinel block is never read
// or written.
const endOfFile = -1

// Transaction is the unit-of-work interface consumed by log records' Undo
// and Redo, and by every higher layer that reads or writes pages.
type Transaction interface {
	Pin(block file.BlockID) error
	Unpin(block file.BlockID)
	GetInt(block file.BlockID, offset int) (int, error)
	GetString(block file.BlockID, offset int) (string, error)
	SetInt(block file.BlockID, offset, val int, okToLog bool) error
	SetString(block file.BlockID, offset int, val string, okToLog bool) error
	Size(filename string) (int, error)
	Append(filename string) (file.BlockID, error)
	BlockSize() int
	AvailableBuffers() int
	Commit() error
	Rollback() error
	Recover() error
	TxNum() buffer.TxID
}

// transaction is the concrete Transaction. Each instance is single-owner:
// callers must not share one across goroutines.
type transaction struct {
	txnum   buffer.TxID
	fm      *file.Manager
	lm      *wal.Manager
	bm      *buffer.Manager
	cm      *concurrencyManager
	bl      *bufferList
	log     zerolog.Logger
	metrics factoryMetrics
}

// Factory constructs transactions, handing out strictly increasing
// transaction numbers and sharing one lock table across every transaction
// it creates.
type Factory struct {
	fm      *file.Manager
	lm      *wal.Manager
	bm      *buffer.Manager
	table   *lockTable
	log     zerolog.Logger
	nextNum int64
	metrics factoryMetrics
}

// NewFactory builds a transaction factory over the given managers. lockWait
// bounds how long a transaction will wait on a contended lock before
// failing with ErrLockTimeout; zero selects DefaultLockWait. reg may be nil
// to skip Prometheus registration entirely.
func NewFactory(fm *file.Manager, lm *wal.Manager, bm *buffer.Manager, lockWait time.Duration, log zerolog.Logger, reg prometheus.Registerer) *Factory {
	metrics := newFactoryMetrics(reg)
	return &Factory{
		fm:      fm,
		lm:      lm,
		bm:      bm,
		table:   newLockTable(lockWait, metrics.lockWait),
		log:     log,
		metrics: metrics,
	}
}

// New starts a fresh transaction, logging its Start record.
func (f *Factory) New() (Transaction, error) {
	num := buffer.TxID(atomic.AddInt64(&f.nextNum, 1))
	tx := &transaction{
		txnum:   num,
		fm:      f.fm,
		lm:      f.lm,
		bm:      f.bm,
		cm:      newConcurrencyManager(f.table),
		bl:      newBufferList(f.bm),
		log:     f.log,
		metrics: f.metrics,
	}
	if _, err := logStart(f.lm, num); err != nil {
		return nil, err
	}
	f.metrics.activeTx.Inc()
	return tx, nil
}

func (t *transaction) TxNum() buffer.TxID { return t.txnum }

func (t *transaction) Pin(block file.BlockID) error {
	if err := t.cm.SLock(block); err != nil {
		return err
	}
	return t.bl.Pin(block)
}

func (t *transaction) Unpin(block file.BlockID) {
	t.bl.Unpin(block)
}

func (t *transaction) GetInt(block file.BlockID, offset int) (int, error) {
	if err := t.cm.SLock(block); err != nil {
		return 0, err
	}
	buf := t.bl.Get(block)
	return buf.Contents().Int(offset), nil
}

func (t *transaction) GetString(block file.BlockID, offset int) (string, error) {
	if err := t.cm.SLock(block); err != nil {
		return "", err
	}
	buf := t.bl.Get(block)
	return buf.Contents().String(offset), nil
}

// SetInt writes val at offset in block. If okToLog is true, a SetInt WAL
// record capturing the prior value is written first and its LSN attached to
// the buffer, per the write-ahead rule; unlogged writes (e.g. formatting a
// fresh page) pass okToLog=false.
func (t *transaction) SetInt(block file.BlockID, offset, val int, okToLog bool) error {
	if err := t.cm.XLock(block); err != nil {
		return err
	}
	buf := t.bl.Get(block)
	lsn := -1
	if okToLog {
		oldval := buf.Contents().Int(offset)
		n, err := logSetInt(t.lm, t.txnum, block, offset, oldval, val)
		if err != nil {
			return err
		}
		lsn = n
	}
	buf.Contents().SetInt(offset, val)
	buf.SetModified(t.txnum, lsn)
	return nil
}

func (t *transaction) SetString(block file.BlockID, offset int, val string, okToLog bool) error {
	if err := t.cm.XLock(block); err != nil {
		return err
	}
	buf := t.bl.Get(block)
	lsn := -1
	if okToLog {
		oldval := buf.Contents().String(offset)
		n, err := logSetString(t.lm, t.txnum, block, offset, oldval, val)
		if err != nil {
			return err
		}
		lsn = n
	}
	buf.Contents().SetString(offset, val)
	buf.SetModified(t.txnum, lsn)
	return nil
}

func (t *transaction) Size(filename string) (int, error) {
	dummy := file.NewBlockID(filename, endOfFile)
	if err := t.cm.SLock(dummy); err != nil {
		return 0, err
	}
	return t.fm.Length(filename)
}

func (t *transaction) Append(filename string) (file.BlockID, error) {
	dummy := file.NewBlockID(filename, endOfFile)
	if err := t.cm.XLock(dummy); err != nil {
		return file.BlockID{}, err
	}
	return t.fm.Append(filename)
}

func (t *transaction) BlockSize() int {
	return t.fm.BlockSize()
}

func (t *transaction) AvailableBuffers() int {
	return t.bm.Available()
}

// Commit flushes every buffer this transaction modified, writes a Commit
// record, flushes the log up to it, and releases all locks. Per the
// write-ahead rule the commit record must itself reach disk before locks
// are released.
func (t *transaction) Commit() error {
	if err := t.bm.FlushAll(t.txnum); err != nil {
		return err
	}
	lsn, err := logCommit(t.lm, t.txnum)
	if err != nil {
		return err
	}
	if err := t.lm.Flush(lsn); err != nil {
		return err
	}
	t.cm.Release()
	t.bl.UnpinAll()
	t.metrics.activeTx.Dec()
	t.log.Debug().Int64("txnum", int64(t.txnum)).Msg("committed")
	return nil
}

// Rollback undoes every write this transaction made (newest first), flushes
// its buffers, writes a Rollback record, and releases all locks.
func (t *transaction) Rollback() error {
	if err := t.rollbackUndo(); err != nil {
		return err
	}
	if err := t.bm.FlushAll(t.txnum); err != nil {
		return err
	}
	lsn, err := logRollback(t.lm, t.txnum)
	if err != nil {
		return err
	}
	if err := t.lm.Flush(lsn); err != nil {
		return err
	}
	t.cm.Release()
	t.bl.UnpinAll()
	t.metrics.activeTx.Dec()
	t.log.Debug().Int64("txnum", int64(t.txnum)).Msg("rolled back")
	return nil
}

// rollbackUndo walks the log newest-to-oldest undoing every write this
// transaction made, stopping once it reaches that transaction's own Start
// record.
func (t *transaction) rollbackUndo() error {
	it, err := t.lm.Iterator()
	if err != nil {
		return err
	}
	for it.HasNext() {
		rec, err := it.Next()
		if err != nil {
			return err
		}
		lr, err := createLogRecord(rec)
		if err != nil {
			return err
		}
		if lr.TxNumber() != t.txnum {
			continue
		}
		if lr.Op() == startType {
			return nil
		}
		if err := lr.Undo(t); err != nil {
			return err
		}
	}
	return nil
}

// Recover performs crash recovery: undo every write made by a transaction
// that never committed or rolled back, then redo every write made by a
// transaction that committed, stopping each pass at the most recent
// checkpoint.
// It is meant to run once, before any new transaction starts.
func (t *transaction) Recover() error {
	rm := &recoveryManager{lm: t.lm}
	if err := rm.recover(t); err != nil {
		return err
	}
	if err := t.bm.FlushAll(t.txnum); err != nil {
		return err
	}
	lsn, err := logCheckpoint(t.lm)
	if err != nil {
		return err
	}
	return t.lm.Flush(lsn)
}
