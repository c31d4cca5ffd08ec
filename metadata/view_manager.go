package metadata

import (
	"errors"
	"fmt"

	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/tx"
)

// MaxViewDef bounds the stored length of a view's defining query text.
const MaxViewDef = 100

const (
	viewCatTable  = "viewcat"
	fieldViewName = "viewname"
	fieldViewDef  = "viewdef"
)

// ViewManager stores view definitions as plain text in viewcat, keyed by
// view name, so that the planner can recursively expand a view reference
// by re-parsing its defining query.
type ViewManager struct {
	tm *TableManager
}

// NewViewManager creates viewcat if it does not already exist.
func NewViewManager(tm *TableManager, t tx.Transaction) (*ViewManager, error) {
	vm := &ViewManager{tm: tm}

	if _, err := tm.Layout(viewCatTable, t); err != nil {
		if !errors.Is(err, ErrTableNotFound) {
			return nil, err
		}
		if err := tm.CreateTable(viewCatTable, viewCatSchema(), t); err != nil {
			return nil, err
		}
	}
	return vm, nil
}

func viewCatSchema() record.Schema {
	schema := record.NewSchema()
	schema.AddStringField(fieldViewName, NameMaxLen)
	schema.AddStringField(fieldViewDef, MaxViewDef)
	return schema
}

// CreateView records a view's name and the canonical text of its
// defining query.
func (vm *ViewManager) CreateView(viewname, viewdef string, t tx.Transaction) error {
	layout, err := vm.tm.Layout(viewCatTable, t)
	if err != nil {
		return err
	}
	ts, err := record.NewTableScan(t, viewCatTable, layout)
	if err != nil {
		return err
	}
	defer ts.Close()

	if err := ts.Insert(); err != nil {
		return err
	}
	if err := ts.SetString(fieldViewName, viewname); err != nil {
		return err
	}
	return ts.SetString(fieldViewDef, viewdef)
}

// ErrViewNotFound is returned by GetViewDef when no viewcat row names
// the requested view.
var ErrViewNotFound = fmt.Errorf("metadata: view not found")

// GetViewDef returns the defining query text of viewname.
func (vm *ViewManager) GetViewDef(viewname string, t tx.Transaction) (string, error) {
	layout, err := vm.tm.Layout(viewCatTable, t)
	if err != nil {
		return "", err
	}
	ts, err := record.NewTableScan(t, viewCatTable, layout)
	if err != nil {
		return "", err
	}
	defer ts.Close()

	for {
		ok, err := ts.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrViewNotFound, viewname)
		}
		name, err := ts.String(fieldViewName)
		if err != nil {
			return "", err
		}
		if name == viewname {
			return ts.String(fieldViewDef)
		}
	}
}
