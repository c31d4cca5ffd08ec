package plan

import (
	"fmt"

	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/sql"
)

var _ record.Scan = (*ProductScan)(nil)

// ProductScan is the cross join of two scans: for every row of s1, it
// walks every row of s2 before advancing s1 again. s2 must support
// BeforeFirst to be rewound once per s1 row.
type ProductScan struct {
	s1, s2 record.Scan
}

func NewProductScan(s1, s2 record.Scan) (*ProductScan, error) {
	ps := &ProductScan{s1: s1, s2: s2}
	if err := ps.BeforeFirst(); err != nil {
		return nil, err
	}
	return ps, nil
}

func (ps *ProductScan) BeforeFirst() error {
	if err := ps.s1.BeforeFirst(); err != nil {
		return err
	}
	if _, err := ps.s1.Next(); err != nil {
		return err
	}
	return ps.s2.BeforeFirst()
}

func (ps *ProductScan) Next() (bool, error) {
	ok, err := ps.s2.Next()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	ok, err = ps.s1.Next()
	if err != nil || !ok {
		return false, err
	}
	if err := ps.s2.BeforeFirst(); err != nil {
		return false, err
	}
	return ps.s2.Next()
}

func (ps *ProductScan) Int(fieldname string) (int, error) {
	if ps.s1.HasField(fieldname) {
		return ps.s1.Int(fieldname)
	}
	return ps.s2.Int(fieldname)
}

func (ps *ProductScan) String(fieldname string) (string, error) {
	if ps.s1.HasField(fieldname) {
		return ps.s1.String(fieldname)
	}
	return ps.s2.String(fieldname)
}

func (ps *ProductScan) GetVal(fieldname string) (sql.Constant, error) {
	if ps.s1.HasField(fieldname) {
		return ps.s1.GetVal(fieldname)
	}
	if ps.s2.HasField(fieldname) {
		return ps.s2.GetVal(fieldname)
	}
	return sql.Constant{}, fmt.Errorf("plan: field %q not found in product", fieldname)
}

func (ps *ProductScan) HasField(fieldname string) bool {
	return ps.s1.HasField(fieldname) || ps.s2.HasField(fieldname)
}

func (ps *ProductScan) Close() {
	ps.s1.Close()
	ps.s2.Close()
}
