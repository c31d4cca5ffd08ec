package tx

import (
	"github.com/corvidb/corvidb/buffer"
	"github.com/corvidb/corvidb/wal"
)

// recoveryManager runs the undo-redo algorithm described by the recovery
// invariant: walk the log newest-to-oldest undoing every write made by a
// transaction that never reached a Commit or Rollback record, stopping at
// the most recent CheckPoint since everything before it is known durable;
// then walk the same span oldest-to-newest redoing every write made by a
// transaction that did commit, starting just after that CheckPoint.
type recoveryManager struct {
	lm *wal.Manager
}

func (rm *recoveryManager) recover(tx Transaction) error {
	fwd, err := rm.lm.Iterator()
	if err != nil {
		return err
	}

	// Captured now, while fwd still sits at the tail block: ReverseIterator
	// snapshots fwd's current block by value, so it must be built before the
	// undo loop below drives fwd backward through the log.
	rev, err := wal.NewReverseIterator(fwd)
	if err != nil {
		return err
	}

	finished := map[buffer.TxID]bool{}
	committed := map[buffer.TxID]bool{}
	sawCheckpoint := false

	for fwd.HasNext() {
		rec, err := fwd.Next()
		if err != nil {
			return err
		}
		lr, err := createLogRecord(rec)
		if err != nil {
			return err
		}
		switch lr.Op() {
		case checkpointType:
			sawCheckpoint = true
		case commitType:
			finished[lr.TxNumber()] = true
			committed[lr.TxNumber()] = true
		case rollbackType:
			finished[lr.TxNumber()] = true
		case setIntType, setStringType:
			if !finished[lr.TxNumber()] {
				if err := lr.Undo(tx); err != nil {
					return err
				}
			}
		}
		if sawCheckpoint {
			break
		}
	}

	// If no checkpoint exists, the whole log is in scope for redo; if one
	// was found, only records after it are (everything before is already
	// durable by the checkpoint's own guarantee).
	afterCheckpoint := !sawCheckpoint

	for rev.HasNext() {
		rec, err := rev.Next()
		if err != nil {
			return err
		}
		lr, err := createLogRecord(rec)
		if err != nil {
			return err
		}

		if lr.Op() == checkpointType {
			afterCheckpoint = true
			continue
		}
		if !afterCheckpoint {
			continue
		}

		switch lr.Op() {
		case setIntType, setStringType:
			if committed[lr.TxNumber()] {
				if err := lr.Redo(tx); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
