package record_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corvidb/corvidb/buffer"
	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/logging"
	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/tx"
	"github.com/corvidb/corvidb/wal"
)

func newTestTx(t *testing.T) tx.Transaction {
	t.Helper()
	dbDir := t.TempDir()

	fm, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { fm.Close() })

	lm, err := wal.NewManager(fm, "corvidb.log", logging.Nop())
	require.NoError(t, err)

	bm := buffer.NewManager(fm, lm, 8, 2*time.Second, logging.Nop(), nil)
	tf := tx.NewFactory(fm, lm, bm, 2*time.Second, logging.Nop(), nil)

	txn, err := tf.New()
	require.NoError(t, err)
	return txn
}

func studentLayout() record.Layout {
	schema := record.NewSchema()
	schema.AddIntField("sid")
	schema.AddStringField("sname", 10)
	schema.AddIntField("gradyear")
	return record.NewLayout(schema)
}

func TestTableScanInsertAndIterate(t *testing.T) {
	txn := newTestTx(t)
	layout := studentLayout()

	ts, err := record.NewTableScan(txn, "student", layout)
	require.NoError(t, err)

	names := []string{"amy", "bob", "kim"}
	for i, name := range names {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("sid", i+1))
		require.NoError(t, ts.SetString("sname", name))
		require.NoError(t, ts.SetInt("gradyear", 2020+i))
	}

	require.NoError(t, ts.BeforeFirst())
	var got []string
	for {
		ok, err := ts.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		s, err := ts.String("sname")
		require.NoError(t, err)
		got = append(got, s)
	}
	require.Equal(t, names, got)
	ts.Close()
	require.NoError(t, txn.Commit())
}

func TestTableScanDeleteAndRID(t *testing.T) {
	txn := newTestTx(t)
	layout := studentLayout()

	ts, err := record.NewTableScan(txn, "student", layout)
	require.NoError(t, err)

	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("sid", 1))
	rid := ts.GetRID()

	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("sid", 2))

	require.NoError(t, ts.MoveToRID(rid))
	v, err := ts.Int("sid")
	require.NoError(t, err)
	require.Equal(t, 1, v)

	require.NoError(t, ts.Delete())

	require.NoError(t, ts.BeforeFirst())
	count := 0
	for {
		ok, err := ts.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 1, count)
	ts.Close()
	require.NoError(t, txn.Commit())
}

func TestTableScanSpansMultipleBlocks(t *testing.T) {
	txn := newTestTx(t)
	layout := studentLayout()

	ts, err := record.NewTableScan(txn, "student", layout)
	require.NoError(t, err)

	const n = 200
	for i := 0; i < n; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("sid", i))
	}

	require.NoError(t, ts.BeforeFirst())
	count := 0
	for {
		ok, err := ts.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, n, count)
	ts.Close()
	require.NoError(t, txn.Commit())
}
