package buffer

import (
	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/wal"
)

// TxID identifies a transaction. NoTx marks a buffer with no current
// modifying transaction. Widened to a 64-bit width per the resolved
// txnum-width open question.
type TxID int64

// NoTx is the sentinel for "no modifying transaction".
const NoTx TxID = -1

// Buffer pairs a page with the block it currently mirrors, a pin count,
// and enough bookkeeping (modifying transaction, LSN) to know whether and
// when it must be flushed before reuse.
type Buffer struct {
	fm       *file.Manager
	lm       *wal.Manager
	contents *file.Page
	block    file.BlockID
	hasBlock bool
	pins     int
	txnum    TxID
	lsn      int
}

// NewBuffer allocates an unbound buffer backed by fm/lm.
func NewBuffer(fm *file.Manager, lm *wal.Manager) *Buffer {
	return &Buffer{
		fm:       fm,
		lm:       lm,
		contents: file.NewPageWithSize(fm.BlockSize()),
		txnum:    NoTx,
		lsn:      -1,
	}
}

func (b *Buffer) Contents() *file.Page {
	return b.contents
}

func (b *Buffer) Block() file.BlockID {
	return b.block
}

// SetModified records that txnum last modified this buffer, optionally
// bumping the LSN of the log record describing that modification. Passing
// lsn < 0 (no new log record, e.g. an unlogged RecordPage.Format write)
// leaves the buffer's current LSN untouched.
func (b *Buffer) SetModified(txnum TxID, lsn int) {
	b.txnum = txnum
	if lsn >= 0 {
		b.lsn = lsn
	}
}

func (b *Buffer) ModifyingTx() TxID {
	return b.txnum
}

func (b *Buffer) IsPinned() bool {
	return b.pins > 0
}

// flush implements the combined semantics resolved for the open question
// in the source: flush the log up to b.lsn, then write the page, and only
// when both the buffer's block and its modifying transaction are set.
func (b *Buffer) flush() error {
	if !b.hasBlock || b.txnum == NoTx {
		return nil
	}
	if err := b.lm.Flush(b.lsn); err != nil {
		return err
	}
	if err := b.fm.Write(b.block, b.contents); err != nil {
		return err
	}
	b.txnum = NoTx
	return nil
}

// assignToBlock flushes any pending modifications to the buffer's current
// block, then rebinds it to block, reading the new block's contents.
func (b *Buffer) assignToBlock(block file.BlockID) error {
	if err := b.flush(); err != nil {
		return err
	}
	b.block = block
	b.hasBlock = true
	if err := b.fm.Read(b.block, b.contents); err != nil {
		return err
	}
	b.pins = 0
	return nil
}

func (b *Buffer) pin() {
	b.pins++
}

func (b *Buffer) unpin() {
	b.pins--
}
