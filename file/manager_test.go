package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/logging"
)

func TestManagerReadWriteRoundTrip(t *testing.T) {
	dbDir := t.TempDir()
	fm, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { fm.Close() })

	block := file.NewBlockID("testblock", 2)
	page := file.NewPageWithSize(fm.BlockSize())

	const pos = 88
	const val = "abcdefghilmno"
	const intVal = 352

	page.SetString(pos, val)
	pos2 := pos + file.MaxLength(len(val))
	page.SetInt(pos2, intVal)

	require.NoError(t, fm.Write(block, page))

	p2 := file.NewPageWithSize(fm.BlockSize())
	require.NoError(t, fm.Read(block, p2))

	require.Equal(t, intVal, p2.Int(pos2))
	require.Equal(t, val, p2.String(pos))
}

func TestManagerAppendExtendsLength(t *testing.T) {
	dbDir := t.TempDir()
	fm, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { fm.Close() })

	n, err := fm.Length("grows.tbl")
	require.NoError(t, err)
	require.Equal(t, 0, n)

	b0, err := fm.Append("grows.tbl")
	require.NoError(t, err)
	require.Equal(t, 0, b0.Number())

	b1, err := fm.Append("grows.tbl")
	require.NoError(t, err)
	require.Equal(t, 1, b1.Number())

	n, err = fm.Length("grows.tbl")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestManagerDeletesTempFilesOnOpen(t *testing.T) {
	dbDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dbDir, "tempfoo"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dbDir, "kept.tbl"), []byte("x"), 0o644))

	fm, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { fm.Close() })

	_, err = os.Stat(filepath.Join(dbDir, "tempfoo"))
	require.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dbDir, "kept.tbl"))
	require.NoError(t, err)
}

func TestManagerReportsIsNew(t *testing.T) {
	dbDir := filepath.Join(t.TempDir(), "fresh")
	fm, err := file.NewManager(dbDir, 400, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { fm.Close() })
	require.True(t, fm.IsNew())
}
