package sql

// FieldType is this package's own enum for a CREATE TABLE field type,
// independent of the storage layer's file.FieldType so that sql carries
// no dependency on the storage packages; the planner translates between
// the two when it builds a record.Schema.
type FieldType int

const (
	FieldTypeInt FieldType = iota
	FieldTypeString
)

// FieldDef is one column of a CREATE TABLE statement.
type FieldDef struct {
	Name   string
	Type   FieldType
	Length int // meaningful only for FieldTypeString
}

// CreateTableData is a parsed CREATE TABLE table (fielddefs...).
type CreateTableData struct {
	TableName string
	Fields    []FieldDef
}

func (d CreateTableData) Kind() CommandKind { return CommandDDL }

// CreateViewData is a parsed CREATE VIEW name AS query; the view's
// definition is stored as the printed form of the query it wraps.
type CreateViewData struct {
	ViewName string
	Query    QueryData
}

func (d CreateViewData) Kind() CommandKind { return CommandDDL }

func (d CreateViewData) Definition() string {
	return d.Query.String()
}

// CreateIndexData is a parsed CREATE INDEX name ON table (field); the
// parser accepts it but per spec no index structure is implemented, so
// executing it is a no-op recorded nowhere.
type CreateIndexData struct {
	IndexName   string
	TableName   string
	TargetField string
}

func (d CreateIndexData) Kind() CommandKind { return CommandDDL }
