package sql_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidb/corvidb/sql"
)

func TestParseSelectWithWhere(t *testing.T) {
	p, err := sql.NewParser("select sid, sname from student where gradyear = 2020")
	require.NoError(t, err)

	q, err := p.Query()
	require.NoError(t, err)
	require.Equal(t, []string{"sid", "sname"}, q.Fields())
	require.Equal(t, []string{"student"}, q.Tables())

	c, ok := q.Predicate().EquatesWithConstant("gradyear")
	require.True(t, ok)
	require.Equal(t, 2020, c.AsInt())
}

func TestParseSelectMultiTableConjunction(t *testing.T) {
	p, err := sql.NewParser("select sid, sname, dname from student, dept where gradyear = 2020 and majorid = did")
	require.NoError(t, err)

	q, err := p.Query()
	require.NoError(t, err)
	require.Equal(t, []string{"student", "dept"}, q.Tables())

	f, ok := q.Predicate().EquatesWithField("majorid")
	require.True(t, ok)
	require.Equal(t, "did", f)
}

// TestParserRoundTrip is spec invariant 6: parse(print(query_data)) must
// equal query_data for every QueryData produced by parse.
func TestParserRoundTrip(t *testing.T) {
	src := "select a, b from t where x = 1 and y = 'hello'"
	p1, err := sql.NewParser(src)
	require.NoError(t, err)
	q1, err := p1.Query()
	require.NoError(t, err)

	p2, err := sql.NewParser(q1.String())
	require.NoError(t, err)
	q2, err := p2.Query()
	require.NoError(t, err)

	require.Equal(t, q1.Fields(), q2.Fields())
	require.Equal(t, q1.Tables(), q2.Tables())
	require.Equal(t, q1.Predicate().String(), q2.Predicate().String())
}

func TestParseInsert(t *testing.T) {
	p, err := sql.NewParser("insert into student (sid, sname) values (1, 'amy')")
	require.NoError(t, err)

	cmd, err := p.Parse()
	require.NoError(t, err)
	ins, ok := cmd.(sql.InsertData)
	require.True(t, ok)
	require.Equal(t, "student", ins.TableName)
	require.Equal(t, []string{"sid", "sname"}, ins.Fields)
	require.Len(t, ins.Values, 2)
	require.Equal(t, 1, ins.Values[0].AsInt())
	require.Equal(t, "amy", ins.Values[1].AsString())
}

func TestParseDelete(t *testing.T) {
	p, err := sql.NewParser("delete from student where sid = 1")
	require.NoError(t, err)

	cmd, err := p.Parse()
	require.NoError(t, err)
	del, ok := cmd.(sql.DeleteData)
	require.True(t, ok)
	require.Equal(t, "student", del.TableName)
}

func TestParseUpdate(t *testing.T) {
	p, err := sql.NewParser("update student set majorid = 20 where sid = 1")
	require.NoError(t, err)

	cmd, err := p.Parse()
	require.NoError(t, err)
	mod, ok := cmd.(sql.ModifyData)
	require.True(t, ok)
	require.Equal(t, "majorid", mod.Field)
}

func TestParseCreateTable(t *testing.T) {
	p, err := sql.NewParser("create table student (sid int, sname varchar(10), gradyear int)")
	require.NoError(t, err)

	cmd, err := p.Parse()
	require.NoError(t, err)
	ct, ok := cmd.(sql.CreateTableData)
	require.True(t, ok)
	require.Equal(t, "student", ct.TableName)
	require.Len(t, ct.Fields, 3)
	require.Equal(t, sql.FieldTypeString, ct.Fields[1].Type)
	require.Equal(t, 10, ct.Fields[1].Length)
}

func TestParseCreateViewAndIndex(t *testing.T) {
	p, err := sql.NewParser("create view sv as select sid from student where gradyear = 2020")
	require.NoError(t, err)
	cmd, err := p.Parse()
	require.NoError(t, err)
	cv, ok := cmd.(sql.CreateViewData)
	require.True(t, ok)
	require.Equal(t, "sv", cv.ViewName)

	p2, err := sql.NewParser("create index idx1 on student (majorid)")
	require.NoError(t, err)
	cmd2, err := p2.Parse()
	require.NoError(t, err)
	ci, ok := cmd2.(sql.CreateIndexData)
	require.True(t, ok)
	require.Equal(t, "majorid", ci.TargetField)
}

func TestParseErrorOnMissingToken(t *testing.T) {
	p, err := sql.NewParser("select from student")
	require.NoError(t, err)
	_, err = p.Query()
	require.ErrorIs(t, err, sql.ErrUnexpectedToken)
}
