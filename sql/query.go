package sql

import "strings"

// QueryData is a parsed SELECT: the field list, the FROM table list (in
// input order, since the planner's join order is exactly this order), and
// the WHERE predicate (empty if there was none).
type QueryData struct {
	fields []string
	tables []string
	pred   Predicate
}

func NewQueryData(fields, tables []string, pred Predicate) QueryData {
	return QueryData{fields: fields, tables: tables, pred: pred}
}

func (q QueryData) Kind() CommandKind { return CommandQuery }

func (q QueryData) Fields() []string { return q.fields }
func (q QueryData) Tables() []string { return q.tables }
func (q QueryData) Predicate() Predicate { return q.pred }

// String reprints the query in canonical form; parsing this output again
// must reproduce an equivalent QueryData (spec's parser round-trip
// property).
func (q QueryData) String() string {
	var sb strings.Builder
	sb.WriteString("select ")
	sb.WriteString(strings.Join(q.fields, ", "))
	sb.WriteString(" from ")
	sb.WriteString(strings.Join(q.tables, ", "))
	if !q.pred.IsEmpty() {
		sb.WriteString(" where ")
		sb.WriteString(q.pred.String())
	}
	return sb.String()
}
