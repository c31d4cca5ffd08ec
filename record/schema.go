// Package record implements the heap file layer: schemas, fixed-length
// record layouts, slotted record pages, and a table scan that walks a
// table's blocks one record at a time.
package record

import "github.com/corvidb/corvidb/file"

type fieldInfo struct {
	fieldType file.FieldType
	length    int
	index     int
}

// Schema holds the name, type, and (for string fields) declared length of
// every field in a table, in declaration order.
type Schema struct {
	fields []string
	info   map[string]fieldInfo
}

// NewSchema returns an empty schema ready for AddIntField/AddStringField.
func NewSchema() Schema {
	return Schema{
		fields: nil,
		info:   map[string]fieldInfo{},
	}
}

// JoinSchema concatenates two schemas' fields into a new schema spanning
// both.
func JoinSchema(first, second Schema) Schema {
	s := NewSchema()
	s.AddAll(first)
	s.AddAll(second)
	return s
}

func (s *Schema) AddIntField(name string) {
	s.addField(name, file.INTEGER, 0)
}

// AddStringField adds a VARCHAR(length) field; length is the declared
// character count, not the encoded byte footprint.
func (s *Schema) AddStringField(name string, length int) {
	s.addField(name, file.STRING, length)
}

// AddField adds a field of the given type and declared length (meaningless
// for an int field), used when rebuilding a schema from raw catalog data
// whose type is already resolved to a file.FieldType.
func (s *Schema) AddField(name string, typ file.FieldType, length int) {
	s.addField(name, typ, length)
}

func (s *Schema) addField(name string, typ file.FieldType, length int) {
	s.fields = append(s.fields, name)
	s.info[name] = fieldInfo{
		fieldType: typ,
		length:    length,
		index:     len(s.fields) - 1,
	}
}

// Add copies one field of another schema into this one, preserving its
// type and declared length.
func (s *Schema) Add(fname string, from Schema) {
	fi := from.info[fname]
	s.addField(fname, fi.fieldType, fi.length)
}

// AddAll copies every field of another schema into this one, in order.
func (s *Schema) AddAll(from Schema) {
	for _, f := range from.fields {
		s.Add(f, from)
	}
}

// Fields returns the schema's fields in declaration order.
func (s Schema) Fields() []string {
	return s.fields
}

func (s Schema) HasField(fname string) bool {
	_, ok := s.info[fname]
	return ok
}

func (s Schema) Type(fname string) file.FieldType {
	return s.info[fname].fieldType
}

// Length returns the declared character length of a string field; the
// result is meaningless for an int field.
func (s Schema) Length(fname string) int {
	return s.info[fname].length
}
