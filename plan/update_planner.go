package plan

import (
	"github.com/corvidb/corvidb/metadata"
	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/sql"
	"github.com/corvidb/corvidb/tx"
)

// UpdatePlanner executes the four statement shapes that mutate rows or
// the catalog rather than returning a result set.
type UpdatePlanner interface {
	ExecuteInsert(data sql.InsertData, t tx.Transaction) (int, error)
	ExecuteDelete(data sql.DeleteData, t tx.Transaction) (int, error)
	ExecuteModify(data sql.ModifyData, t tx.Transaction) (int, error)
	ExecuteCreateTable(data sql.CreateTableData, t tx.Transaction) error
	ExecuteCreateView(data sql.CreateViewData, t tx.Transaction) error
	ExecuteCreateIndex(data sql.CreateIndexData, t tx.Transaction) error
}

var _ UpdatePlanner = (*BasicUpdatePlanner)(nil)

// BasicUpdatePlanner implements every DML/DDL statement directly against
// the metadata manager and the record layer, without going through a cost
// estimate: an insert/delete/update touches one table scan, and a create
// statement touches only the catalog.
type BasicUpdatePlanner struct {
	md *metadata.Manager
}

func NewBasicUpdatePlanner(md *metadata.Manager) *BasicUpdatePlanner {
	return &BasicUpdatePlanner{md: md}
}

func (up *BasicUpdatePlanner) ExecuteInsert(data sql.InsertData, t tx.Transaction) (int, error) {
	layout, err := up.md.Layout(data.TableName, t)
	if err != nil {
		return 0, err
	}
	ts, err := record.NewTableScan(t, data.TableName, layout)
	if err != nil {
		return 0, err
	}
	defer ts.Close()

	if err := ts.Insert(); err != nil {
		return 0, err
	}
	for i, fname := range data.Fields {
		if err := ts.SetVal(fname, data.Values[i]); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

func (up *BasicUpdatePlanner) ExecuteDelete(data sql.DeleteData, t tx.Transaction) (int, error) {
	layout, err := up.md.Layout(data.TableName, t)
	if err != nil {
		return 0, err
	}
	ts, err := record.NewTableScan(t, data.TableName, layout)
	if err != nil {
		return 0, err
	}
	defer ts.Close()

	ss := NewSelectScan(ts, data.Pred)
	count := 0
	for {
		ok, err := ss.Next()
		if err != nil {
			return count, err
		}
		if !ok {
			break
		}
		if err := ss.Delete(); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (up *BasicUpdatePlanner) ExecuteModify(data sql.ModifyData, t tx.Transaction) (int, error) {
	layout, err := up.md.Layout(data.TableName, t)
	if err != nil {
		return 0, err
	}
	ts, err := record.NewTableScan(t, data.TableName, layout)
	if err != nil {
		return 0, err
	}
	defer ts.Close()

	ss := NewSelectScan(ts, data.Pred)
	count := 0
	for {
		ok, err := ss.Next()
		if err != nil {
			return count, err
		}
		if !ok {
			break
		}
		val, err := data.NewValue.Evaluate(ss)
		if err != nil {
			return count, err
		}
		if err := ss.SetVal(data.Field, val); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (up *BasicUpdatePlanner) ExecuteCreateTable(data sql.CreateTableData, t tx.Transaction) error {
	schema := record.NewSchema()
	for _, fd := range data.Fields {
		switch fd.Type {
		case sql.FieldTypeInt:
			schema.AddIntField(fd.Name)
		case sql.FieldTypeString:
			schema.AddStringField(fd.Name, fd.Length)
		}
	}
	return up.md.CreateTable(data.TableName, schema, t)
}

func (up *BasicUpdatePlanner) ExecuteCreateView(data sql.CreateViewData, t tx.Transaction) error {
	return up.md.CreateView(data.ViewName, data.Definition(), t)
}

// ExecuteCreateIndex is a no-op: the parser accepts CREATE INDEX for SQL
// compatibility, but no index structure exists to populate.
func (up *BasicUpdatePlanner) ExecuteCreateIndex(data sql.CreateIndexData, t tx.Transaction) error {
	return nil
}
