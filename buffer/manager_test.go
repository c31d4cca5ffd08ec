package buffer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corvidb/corvidb/buffer"
	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/logging"
	"github.com/corvidb/corvidb/wal"
)

func newTestDeps(t *testing.T, poolSize int, maxWait time.Duration) (*file.Manager, *buffer.Manager) {
	t.Helper()
	dbDir := t.TempDir()
	fm, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { fm.Close() })

	lm, err := wal.NewManager(fm, "corvidb.log", logging.Nop())
	require.NoError(t, err)

	bm := buffer.NewManager(fm, lm, poolSize, maxWait, logging.Nop(), nil)
	return fm, bm
}

// TestBufferExhaustionTimesOut is Scenario A.
func TestBufferExhaustionTimesOut(t *testing.T) {
	_, bm := newTestDeps(t, 3, 100*time.Millisecond)

	b0, err := bm.Pin(file.NewBlockID("testfile", 0))
	require.NoError(t, err)
	_, err = bm.Pin(file.NewBlockID("testfile", 1))
	require.NoError(t, err)
	_, err = bm.Pin(file.NewBlockID("testfile", 2))
	require.NoError(t, err)
	require.Equal(t, 0, bm.Available())

	_, err = bm.Pin(file.NewBlockID("testfile", 3))
	require.ErrorIs(t, err, buffer.ErrPinTimeout)

	bm.Unpin(b0)
	b3, err := bm.Pin(file.NewBlockID("testfile", 3))
	require.NoError(t, err)
	require.NotNil(t, b3)
}

// TestBufferEvictionFlushesToDisk is Scenario B.
func TestBufferEvictionFlushesToDisk(t *testing.T) {
	fm, bm := newTestDeps(t, 1, time.Second)

	block0 := file.NewBlockID("testfile", 0)
	b, err := bm.Pin(block0)
	require.NoError(t, err)

	b.Contents().SetInt(0, 123)
	b.SetModified(1, -1)
	bm.Unpin(b)

	check := file.NewPageWithSize(fm.BlockSize())
	require.NoError(t, fm.Read(block0, check))
	require.NotEqual(t, 123, check.Int(0))

	_, err = bm.Pin(file.NewBlockID("testfile", 1))
	require.NoError(t, err)

	require.NoError(t, fm.Read(block0, check))
	require.Equal(t, 123, check.Int(0))
}
