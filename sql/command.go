package sql

// CommandKind distinguishes the three broad shapes the executor must
// dispatch: a query returns rows, a DML command mutates rows, a DDL
// command mutates the catalog.
type CommandKind int

const (
	CommandQuery CommandKind = iota
	CommandDML
	CommandDDL
)

// Command is implemented by every parsed statement; Kind classifies it.
// db.Exec dispatches on the concrete type instead: QueryData goes to
// RunQuery, every other command to the planner's ExecuteUpdate.
type Command interface {
	Kind() CommandKind
}
