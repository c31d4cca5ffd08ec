package metadata_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corvidb/corvidb/buffer"
	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/logging"
	"github.com/corvidb/corvidb/metadata"
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

func studentSchema() record.Schema {
	schema := record.NewSchema()
	schema.AddIntField("sid")
	schema.AddStringField("sname", 10)
	schema.AddIntField("gradyear")
	return schema
}

func TestTableManagerCreateAndLayout(t *testing.T) {
	txn := newTestTx(t)
	tm := metadata.NewTableManager()
	require.NoError(t, tm.SetupIfNotExists(txn))

	require.NoError(t, tm.CreateTable("student", studentSchema(), txn))

	layout, err := tm.Layout("student", txn)
	require.NoError(t, err)
	require.Equal(t, []string{"sid", "sname", "gradyear"}, layout.Schema().Fields())
	require.True(t, layout.SlotSize() > 0)

	_, err = tm.Layout("nosuchtable", txn)
	require.ErrorIs(t, err, metadata.ErrTableNotFound)

	require.NoError(t, txn.Commit())
}

func TestTableManagerSetupIsIdempotent(t *testing.T) {
	txn := newTestTx(t)
	tm := metadata.NewTableManager()
	require.NoError(t, tm.SetupIfNotExists(txn))
	require.NoError(t, tm.SetupIfNotExists(txn))

	layout, err := tm.Layout("tblcat", txn)
	require.NoError(t, err)
	require.Equal(t, []string{"tblname", "slotsize"}, layout.Schema().Fields())

	require.NoError(t, txn.Commit())
}

func TestViewManagerCreateAndGet(t *testing.T) {
	txn := newTestTx(t)
	tm := metadata.NewTableManager()
	require.NoError(t, tm.SetupIfNotExists(txn))
	vm, err := metadata.NewViewManager(tm, txn)
	require.NoError(t, err)

	const def = "select sname from student where gradyear = 2020"
	require.NoError(t, vm.CreateView("youngstudent", def, txn))

	got, err := vm.GetViewDef("youngstudent", txn)
	require.NoError(t, err)
	require.Equal(t, def, got)

	_, err = vm.GetViewDef("nosuchview", txn)
	require.ErrorIs(t, err, metadata.ErrViewNotFound)

	require.NoError(t, txn.Commit())
}

func TestStatManagerTracksDistinctValues(t *testing.T) {
	txn := newTestTx(t)
	tm := metadata.NewTableManager()
	require.NoError(t, tm.SetupIfNotExists(txn))
	require.NoError(t, tm.CreateTable("student", studentSchema(), txn))

	layout, err := tm.Layout("student", txn)
	require.NoError(t, err)

	ts, err := record.NewTableScan(txn, "student", layout)
	require.NoError(t, err)
	years := []int{2020, 2020, 2021, 2022}
	for i, y := range years {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("sid", i))
		require.NoError(t, ts.SetString("sname", "s"))
		require.NoError(t, ts.SetInt("gradyear", y))
	}
	ts.Close()

	sm, err := metadata.NewStatManager(tm, txn)
	require.NoError(t, err)

	si, err := sm.StatInfo("student", layout, txn)
	require.NoError(t, err)
	require.Equal(t, 4, si.NumRecords)
	require.Equal(t, 3, si.DistinctValues("gradyear"))
	require.Equal(t, 1, si.DistinctValues("sname"))

	require.NoError(t, txn.Commit())
}

func TestManagerBootstrapsCatalog(t *testing.T) {
	txn := newTestTx(t)
	m, err := metadata.NewManager(txn)
	require.NoError(t, err)

	require.NoError(t, m.CreateTable("student", studentSchema(), txn))
	layout, err := m.Layout("student", txn)
	require.NoError(t, err)
	require.Equal(t, 3, len(layout.Schema().Fields()))

	require.NoError(t, m.CreateView("allstudents", "select sid from student", txn))
	def, err := m.GetViewDef("allstudents", txn)
	require.NoError(t, err)
	require.Equal(t, "select sid from student", def)

	require.NoError(t, txn.Commit())
}
