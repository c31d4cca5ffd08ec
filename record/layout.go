package record

import "github.com/corvidb/corvidb/file"

// Layout computes, once per schema, the byte offset of every field within
// a slot and the resulting fixed slot size. All records of a table share
// the same layout.
type Layout struct {
	schema   Schema
	offsets  map[string]int
	slotSize int
}

// NewLayout lays fields out in declaration order immediately after the
// slot's leading flag word.
func NewLayout(schema Schema) Layout {
	offsets := make(map[string]int, len(schema.fields))
	pos := file.IntSize
	for _, f := range schema.fields {
		offsets[f] = pos
		pos += fieldWidth(schema, f)
	}
	return Layout{schema: schema, offsets: offsets, slotSize: pos}
}

// NewLayoutFromOffsets rebuilds a Layout from offsets already computed and
// stored in the catalog, rather than recomputing them: the table manager
// reads a table's field offsets back out of fldcat verbatim (spec §4.10).
func NewLayoutFromOffsets(schema Schema, offsets map[string]int, slotSize int) Layout {
	return Layout{schema: schema, offsets: offsets, slotSize: slotSize}
}

func fieldWidth(schema Schema, field string) int {
	switch schema.Type(field) {
	case file.INTEGER:
		return file.IntSize
	case file.STRING:
		return file.MaxLength(schema.Length(field))
	default:
		panic("record: unsupported field type")
	}
}

func (l Layout) Schema() Schema {
	return l.schema
}

func (l Layout) Offset(fname string) int {
	return l.offsets[fname]
}

func (l Layout) SlotSize() int {
	return l.slotSize
}
