package wal_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/logging"
	"github.com/corvidb/corvidb/wal"
)

func newTestManager(t *testing.T) (*file.Manager, *wal.Manager) {
	t.Helper()
	dbDir := t.TempDir()
	fm, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { fm.Close() })

	lm, err := wal.NewManager(fm, "corvidb.log", logging.Nop())
	require.NoError(t, err)
	return fm, lm
}

// TestLogOrdering is Scenario C: 100 records appended in order must iterate
// newest-first forward and oldest-first in reverse.
func TestLogOrdering(t *testing.T) {
	_, lm := newTestManager(t)

	const n = 100
	for i := 0; i < n; i++ {
		rec := []byte(fmt.Sprintf("test log record %d", i))
		_, err := lm.Append(rec)
		require.NoError(t, err)
	}

	it, err := lm.Iterator()
	require.NoError(t, err)

	for i := n - 1; i >= 0; i-- {
		require.True(t, it.HasNext())
		rec, err := it.Next()
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("test log record %d", i), string(rec))
	}
	require.False(t, it.HasNext())

	fwd, err := lm.Iterator()
	require.NoError(t, err)
	rit, err := wal.NewReverseIterator(fwd)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		require.True(t, rit.HasNext())
		rec, err := rit.Next()
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("test log record %d", i), string(rec))
	}
	require.False(t, rit.HasNext())
}

func TestAppendReturnsIncreasingLSN(t *testing.T) {
	_, lm := newTestManager(t)

	lsn1, err := lm.Append([]byte("a"))
	require.NoError(t, err)
	lsn2, err := lm.Append([]byte("b"))
	require.NoError(t, err)
	require.Greater(t, lsn2, lsn1)
}
