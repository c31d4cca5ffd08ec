// Package metadata implements the catalog: the table, view, and
// statistics managers that store a database's schema information as
// ordinary heap tables, per spec §4.10.
package metadata

import (
	"fmt"

	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/tx"
)

// NameMaxLen bounds a table or field name's declared character length in
// the catalog tables.
const NameMaxLen = 16

const (
	tblCatTable = "tblcat"
	fldCatTable = "fldcat"

	fieldTblName  = "tblname"
	fieldSlotSize = "slotsize"
	fieldFldName  = "fldname"
	fieldType     = "type"
	fieldLength   = "length"
	fieldOffset   = "offset"
)

// TableManager owns the layouts of tblcat and fldcat — the two catalog
// tables describing every other table's record format — and uses them to
// create new tables and to rebuild any table's Layout on request.
type TableManager struct {
	tblCatLayout record.Layout
	fldCatLayout record.Layout
}

// NewTableManager builds the fixed layouts of tblcat and fldcat. These
// layouts are known at compile time; the table manager never reads them
// back from the catalog, although SetupIfNotExists also records them there.
func NewTableManager() *TableManager {
	tblCatSchema := record.NewSchema()
	tblCatSchema.AddStringField(fieldTblName, NameMaxLen)
	tblCatSchema.AddIntField(fieldSlotSize)

	fldCatSchema := record.NewSchema()
	fldCatSchema.AddStringField(fieldTblName, NameMaxLen)
	fldCatSchema.AddStringField(fieldFldName, NameMaxLen)
	fldCatSchema.AddIntField(fieldType)
	fldCatSchema.AddIntField(fieldLength)
	fldCatSchema.AddIntField(fieldOffset)

	return &TableManager{
		tblCatLayout: record.NewLayout(tblCatSchema),
		fldCatLayout: record.NewLayout(fldCatSchema),
	}
}

// SetupIfNotExists scans tblcat for a row naming tblcat itself; if absent
// (a brand-new database), it creates both catalog tables by inserting
// their own descriptions into themselves.
func (tm *TableManager) SetupIfNotExists(t tx.Transaction) error {
	exists, err := tm.tableExists(tblCatTable, t)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := tm.CreateTable(tblCatTable, tm.tblCatLayout.Schema(), t); err != nil {
		return err
	}
	return tm.CreateTable(fldCatTable, tm.fldCatLayout.Schema(), t)
}

func (tm *TableManager) tableExists(tblname string, t tx.Transaction) (bool, error) {
	ts, err := record.NewTableScan(t, tblCatTable, tm.tblCatLayout)
	if err != nil {
		return false, err
	}
	defer ts.Close()

	for {
		ok, err := ts.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		name, err := ts.String(fieldTblName)
		if err != nil {
			return false, err
		}
		if name == tblname {
			return true, nil
		}
	}
}

// CreateTable computes schema's Layout, then records tblname's slot size
// in tblcat and one row per field in fldcat.
func (tm *TableManager) CreateTable(tblname string, schema record.Schema, t tx.Transaction) error {
	layout := record.NewLayout(schema)

	tcat, err := record.NewTableScan(t, tblCatTable, tm.tblCatLayout)
	if err != nil {
		return err
	}
	defer tcat.Close()

	if err := tcat.Insert(); err != nil {
		return err
	}
	if err := tcat.SetString(fieldTblName, tblname); err != nil {
		return err
	}
	if err := tcat.SetInt(fieldSlotSize, layout.SlotSize()); err != nil {
		return err
	}

	fcat, err := record.NewTableScan(t, fldCatTable, tm.fldCatLayout)
	if err != nil {
		return err
	}
	defer fcat.Close()

	for _, fname := range schema.Fields() {
		if err := fcat.Insert(); err != nil {
			return err
		}
		if err := fcat.SetString(fieldTblName, tblname); err != nil {
			return err
		}
		if err := fcat.SetString(fieldFldName, fname); err != nil {
			return err
		}
		if err := fcat.SetInt(fieldType, int(schema.Type(fname))); err != nil {
			return err
		}
		if err := fcat.SetInt(fieldLength, schema.Length(fname)); err != nil {
			return err
		}
		if err := fcat.SetInt(fieldOffset, layout.Offset(fname)); err != nil {
			return err
		}
	}
	return nil
}

// ErrTableNotFound is returned by Layout when no tblcat row names the
// requested table.
var ErrTableNotFound = fmt.Errorf("metadata: table not found")

// Layout scans tblcat for tblname's slot size, then fldcat for each of its
// fields' type/length/offset, and rebuilds the Layout from those offsets
// directly rather than recomputing them (spec §4.10).
func (tm *TableManager) Layout(tblname string, t tx.Transaction) (record.Layout, error) {
	slotSize := -1

	tcat, err := record.NewTableScan(t, tblCatTable, tm.tblCatLayout)
	if err != nil {
		return record.Layout{}, err
	}
	for {
		ok, err := tcat.Next()
		if err != nil {
			tcat.Close()
			return record.Layout{}, err
		}
		if !ok {
			break
		}
		name, err := tcat.String(fieldTblName)
		if err != nil {
			tcat.Close()
			return record.Layout{}, err
		}
		if name == tblname {
			slotSize, err = tcat.Int(fieldSlotSize)
			if err != nil {
				tcat.Close()
				return record.Layout{}, err
			}
			break
		}
	}
	tcat.Close()

	if slotSize < 0 {
		return record.Layout{}, fmt.Errorf("%w: %q", ErrTableNotFound, tblname)
	}

	schema := record.NewSchema()
	offsets := map[string]int{}

	fcat, err := record.NewTableScan(t, fldCatTable, tm.fldCatLayout)
	if err != nil {
		return record.Layout{}, err
	}
	defer fcat.Close()

	for {
		ok, err := fcat.Next()
		if err != nil {
			return record.Layout{}, err
		}
		if !ok {
			break
		}
		name, err := fcat.String(fieldTblName)
		if err != nil {
			return record.Layout{}, err
		}
		if name != tblname {
			continue
		}
		fname, err := fcat.String(fieldFldName)
		if err != nil {
			return record.Layout{}, err
		}
		ftype, err := fcat.Int(fieldType)
		if err != nil {
			return record.Layout{}, err
		}
		flen, err := fcat.Int(fieldLength)
		if err != nil {
			return record.Layout{}, err
		}
		offset, err := fcat.Int(fieldOffset)
		if err != nil {
			return record.Layout{}, err
		}
		offsets[fname] = offset
		schema.AddField(fname, file.FieldType(ftype), flen)
	}

	return record.NewLayoutFromOffsets(schema, offsets, slotSize), nil
}
