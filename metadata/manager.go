package metadata

import (
	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/tx"
)

// Manager is the single entry point the rest of the engine uses to reach
// the table, view, and statistics managers, mirroring how the teacher
// bundles its catalog managers behind one facade.
type Manager struct {
	Table *TableManager
	View  *ViewManager
	Stat  *StatManager
}

// NewManager bootstraps the catalog on a brand-new transaction: it
// creates tblcat/fldcat if absent, then builds the view and statistics
// managers on top of them.
func NewManager(t tx.Transaction) (*Manager, error) {
	tm := NewTableManager()
	if err := tm.SetupIfNotExists(t); err != nil {
		return nil, err
	}
	vm, err := NewViewManager(tm, t)
	if err != nil {
		return nil, err
	}
	sm, err := NewStatManager(tm, t)
	if err != nil {
		return nil, err
	}
	return &Manager{Table: tm, View: vm, Stat: sm}, nil
}

// CreateTable is a convenience forward to Table.CreateTable.
func (m *Manager) CreateTable(tblname string, schema record.Schema, t tx.Transaction) error {
	return m.Table.CreateTable(tblname, schema, t)
}

// Layout is a convenience forward to Table.Layout.
func (m *Manager) Layout(tblname string, t tx.Transaction) (record.Layout, error) {
	return m.Table.Layout(tblname, t)
}

// StatInfo is a convenience forward to Stat.StatInfo, fetching tblname's
// layout first.
func (m *Manager) StatInfo(tblname string, t tx.Transaction) (StatInfo, error) {
	layout, err := m.Layout(tblname, t)
	if err != nil {
		return StatInfo{}, err
	}
	return m.Stat.StatInfo(tblname, layout, t)
}

// CreateView is a convenience forward to View.CreateView.
func (m *Manager) CreateView(viewname, viewdef string, t tx.Transaction) error {
	return m.View.CreateView(viewname, viewdef, t)
}

// GetViewDef is a convenience forward to View.GetViewDef.
func (m *Manager) GetViewDef(viewname string, t tx.Transaction) (string, error) {
	return m.View.GetViewDef(viewname, t)
}
