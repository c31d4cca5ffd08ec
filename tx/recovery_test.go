package tx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corvidb/corvidb/buffer"
	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/logging"
	"github.com/corvidb/corvidb/tx"
	"github.com/corvidb/corvidb/wal"
)

// TestRecoveryUndoesUncommittedAndRedoesCommitted is Scenario E: a process
// restart over a database directory left mid-transaction must undo the
// uncommitted transaction's writes and redo the committed one's, using only
// what is durable in the log and data files (the buffer pool itself is
// gone, as it would be across a real crash).
func TestRecoveryUndoesUncommittedAndRedoesCommitted(t *testing.T) {
	dbDir := t.TempDir()

	fm1, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	lm1, err := wal.NewManager(fm1, "corvidb.log", logging.Nop())
	require.NoError(t, err)
	bm1 := buffer.NewManager(fm1, lm1, 8, time.Second, logging.Nop(), nil)
	tf1 := tx.NewFactory(fm1, lm1, bm1, time.Second, logging.Nop(), nil)

	setup, err := tf1.New()
	require.NoError(t, err)
	block, err := setup.Append("recover.tbl")
	require.NoError(t, err)
	require.NoError(t, setup.Pin(block))
	require.NoError(t, setup.SetInt(block, 0, 5, false))
	require.NoError(t, setup.Commit())

	// committer finishes normally: its write is both logged and, via
	// Commit's own FlushAll, already durable on disk.
	committer, err := tf1.New()
	require.NoError(t, err)
	require.NoError(t, committer.Pin(block))
	require.NoError(t, committer.SetInt(block, 0, 42, true))
	require.NoError(t, committer.Commit())

	// crasher writes and logs a change but never commits or rolls back,
	// and its dirty buffer is never flushed: exactly what a crash leaves
	// behind.
	crasher, err := tf1.New()
	require.NoError(t, err)
	require.NoError(t, crasher.Pin(block))
	require.NoError(t, crasher.SetInt(block, 0, 999, true))
	require.NoError(t, lm1.Flush(1<<30))
	require.NoError(t, fm1.Close())

	check := file.NewPageWithSize(400)
	fmCheck, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, fmCheck.Read(block, check))
	require.Equal(t, 42, check.Int(0), "crasher's unflushed write must not be on disk before recovery")
	require.NoError(t, fmCheck.Close())

	// simulate a fresh process: new managers, empty lock table, over the
	// same database directory.
	fm2, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { fm2.Close() })
	lm2, err := wal.NewManager(fm2, "corvidb.log", logging.Nop())
	require.NoError(t, err)
	bm2 := buffer.NewManager(fm2, lm2, 8, time.Second, logging.Nop(), nil)
	tf2 := tx.NewFactory(fm2, lm2, bm2, time.Second, logging.Nop(), nil)

	recoverer, err := tf2.New()
	require.NoError(t, err)
	require.NoError(t, recoverer.Recover())
	require.NoError(t, recoverer.Commit())

	reader, err := tf2.New()
	require.NoError(t, err)
	require.NoError(t, reader.Pin(block))
	v, err := reader.GetInt(block, 0)
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.NoError(t, reader.Commit())
}
