package db_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidb/corvidb/db"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.NewDB(t.TempDir(), db.Config{BlockSize: 400, BufferPoolSize: 8})
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestExecCreateInsertQuery(t *testing.T) {
	d := newTestDB(t)

	txn, err := d.NewTx()
	require.NoError(t, err)

	_, err = d.Exec(txn, "create table student (sid int, sname varchar(10), gradyear int)")
	require.NoError(t, err)

	_, err = d.Exec(txn, "insert into student (sid, sname, gradyear) values (1, 'amy', 2020)")
	require.NoError(t, err)
	_, err = d.Exec(txn, "insert into student (sid, sname, gradyear) values (2, 'bob', 2021)")
	require.NoError(t, err)

	result, err := d.Exec(txn, "select sname from student where gradyear = 2020")
	require.NoError(t, err)
	require.NotNil(t, result.Rows)
	defer result.Rows.Close()

	ok, err := result.Rows.Next()
	require.NoError(t, err)
	require.True(t, ok)
	name, err := result.Rows.Value("sname")
	require.NoError(t, err)
	require.Equal(t, "amy", name.AsString())

	ok, err = result.Rows.Next()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, txn.Commit())
}

func TestSessionCommitIsolatesStatements(t *testing.T) {
	d := newTestDB(t)

	setup, err := d.NewSession()
	require.NoError(t, err)
	_, err = setup.Exec("create table counter (n int)")
	require.NoError(t, err)
	_, err = setup.Exec("insert into counter (n) values (1)")
	require.NoError(t, err)
	require.NoError(t, setup.Commit())

	reader, err := d.NewSession()
	require.NoError(t, err)
	require.NotEqual(t, setup.ID, reader.ID)

	result, err := reader.Exec("select n from counter")
	require.NoError(t, err)
	ok, err := result.Rows.Next()
	require.NoError(t, err)
	require.True(t, ok)
	v, err := result.Rows.Value("n")
	require.NoError(t, err)
	require.Equal(t, 1, v.AsInt())
	result.Rows.Close()
	require.NoError(t, reader.Commit())
}

func TestExecRowsAffected(t *testing.T) {
	d := newTestDB(t)
	s, err := d.NewSession()
	require.NoError(t, err)

	_, err = s.Exec("create table student (sid int, sname varchar(10), gradyear int)")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		result, err := s.Exec("insert into student (sid, sname, gradyear) values (1, 'amy', 2020)")
		require.NoError(t, err)
		require.Equal(t, 1, result.RowsAffected)
	}

	result, err := s.Exec("delete from student where sid = 1")
	require.NoError(t, err)
	require.Equal(t, 3, result.RowsAffected)

	require.NoError(t, s.Commit())
}
