package sql

// Scan is the minimal read surface this package's Expression/Term/Predicate
// need to evaluate themselves against a row: just field lookup. The
// record and plan packages' richer cursor types satisfy this structurally,
// without either package importing the other.
type Scan interface {
	GetVal(fieldname string) (Constant, error)
}
