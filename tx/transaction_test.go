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

type testEngine struct {
	fm *file.Manager
	lm *wal.Manager
	bm *buffer.Manager
	tf *tx.Factory
}

func newTestEngine(t *testing.T, poolSize int) *testEngine {
	t.Helper()
	dbDir := t.TempDir()

	fm, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { fm.Close() })

	lm, err := wal.NewManager(fm, "corvidb.log", logging.Nop())
	require.NoError(t, err)

	bm := buffer.NewManager(fm, lm, poolSize, 2*time.Second, logging.Nop(), nil)
	tf := tx.NewFactory(fm, lm, bm, 200*time.Millisecond, logging.Nop(), nil)

	return &testEngine{fm: fm, lm: lm, bm: bm, tf: tf}
}

// TestCommitPersistsWrites exercises the basic write/commit/read path.
func TestCommitPersistsWrites(t *testing.T) {
	e := newTestEngine(t, 8)

	t1, err := e.tf.New()
	require.NoError(t, err)
	block, err := t1.Append("testfile")
	require.NoError(t, err)
	require.NoError(t, t1.Pin(block))
	require.NoError(t, t1.SetInt(block, 80, 1, false))
	require.NoError(t, t1.SetString(block, 40, "one", false))
	require.NoError(t, t1.Commit())

	t2, err := e.tf.New()
	require.NoError(t, err)
	require.NoError(t, t2.Pin(block))
	iv, err := t2.GetInt(block, 80)
	require.NoError(t, err)
	require.Equal(t, 1, iv)
	sv, err := t2.GetString(block, 40)
	require.NoError(t, err)
	require.Equal(t, "one", sv)
	require.NoError(t, t2.Commit())
}

// TestRollbackUndoesWrites checks that a transaction that writes then
// rolls back leaves no trace: a later reader sees the committed value.
func TestRollbackUndoesWrites(t *testing.T) {
	e := newTestEngine(t, 8)

	setup, err := e.tf.New()
	require.NoError(t, err)
	block, err := setup.Append("rollback.tbl")
	require.NoError(t, err)
	require.NoError(t, setup.Pin(block))
	require.NoError(t, setup.SetInt(block, 0, 9, false))
	require.NoError(t, setup.Commit())

	t1, err := e.tf.New()
	require.NoError(t, err)
	require.NoError(t, t1.Pin(block))
	require.NoError(t, t1.SetInt(block, 0, 999, true))
	require.NoError(t, t1.Rollback())

	t2, err := e.tf.New()
	require.NoError(t, err)
	require.NoError(t, t2.Pin(block))
	v, err := t2.GetInt(block, 0)
	require.NoError(t, err)
	require.Equal(t, 9, v)
	require.NoError(t, t2.Commit())
}

// TestExclusiveLockBlocksConcurrentReader is Scenario D: a second
// transaction's SLock on a block an uncommitted writer holds exclusively
// must fail with ErrLockTimeout rather than observe a dirty read.
func TestExclusiveLockBlocksConcurrentReader(t *testing.T) {
	e := newTestEngine(t, 8)

	owner, err := e.tf.New()
	require.NoError(t, err)
	block, err := owner.Append("locked.tbl")
	require.NoError(t, err)
	require.NoError(t, owner.Pin(block))
	require.NoError(t, owner.SetInt(block, 0, 1, true))

	other, err := e.tf.New()
	require.NoError(t, err)
	err = other.Pin(block)
	require.ErrorIs(t, err, tx.ErrLockTimeout)

	require.NoError(t, owner.Commit())
}

// TestSharedLockPromotesToExclusive covers the atomic shared-to-exclusive
// promotion path when no other transaction also holds the block shared.
func TestSharedLockPromotesToExclusive(t *testing.T) {
	e := newTestEngine(t, 8)

	setup, err := e.tf.New()
	require.NoError(t, err)
	block, err := setup.Append("promote.tbl")
	require.NoError(t, err)
	require.NoError(t, setup.Pin(block))
	require.NoError(t, setup.SetInt(block, 0, 1, false))
	require.NoError(t, setup.Commit())

	t1, err := e.tf.New()
	require.NoError(t, err)
	require.NoError(t, t1.Pin(block))
	_, err = t1.GetInt(block, 0)
	require.NoError(t, err)
	require.NoError(t, t1.SetInt(block, 0, 2, true))
	require.NoError(t, t1.Commit())
}
