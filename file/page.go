package file

import "encoding/binary"

// FieldType enumerates the schema field kinds this engine supports.
type FieldType int

const (
	INTEGER FieldType = iota
	STRING
)

// IntSize is the byte footprint of every encoded int32 and length prefix.
const IntSize = 4

// MaxLength returns the maximum number of bytes a string field of the given
// declared character length can occupy once UTF-8 encoded, plus its
// 4-byte length prefix: 4 + 6*n, since a single UTF-8 code point can take
// up to 4 bytes and len is expressed in characters, not bytes, in the
// worst realistic case the source bounds it by six bytes per character.
func MaxLength(strlen int) int {
	return IntSize + strlen*6
}

// Page is a fixed-size in-memory mirror of one block's bytes. All integers
// are stored big-endian; a "bytes" field is a 4-byte big-endian length
// followed by the raw bytes; a "string" field is a bytes field whose
// payload is UTF-8.
type Page struct {
	buf []byte
}

// NewPageWithSize allocates a zeroed page of the given block size.
func NewPageWithSize(blockSize int) *Page {
	return &Page{buf: make([]byte, blockSize)}
}

// NewPageWithSlice wraps an existing byte slice (e.g. one freshly built for
// a log record) as a Page without copying.
func NewPageWithSlice(buf []byte) *Page {
	return &Page{buf: buf}
}

// Int reads the big-endian int32 at offset.
func (p *Page) Int(offset int) int {
	return int(int32(binary.BigEndian.Uint32(p.buf[offset:])))
}

// SetInt writes val as a big-endian int32 at offset.
func (p *Page) SetInt(offset int, val int) {
	binary.BigEndian.PutUint32(p.buf[offset:], uint32(int32(val)))
}

// Bytes reads a length-prefixed byte slice at offset. The returned slice is
// a copy; callers may not assume it aliases the page buffer.
func (p *Page) Bytes(offset int) []byte {
	length := p.Int(offset)
	start := offset + IntSize
	out := make([]byte, length)
	copy(out, p.buf[start:start+length])
	return out
}

// SetBytes writes val as a length-prefixed byte slice at offset.
func (p *Page) SetBytes(offset int, val []byte) {
	p.SetInt(offset, len(val))
	copy(p.buf[offset+IntSize:], val)
}

// String reads a length-prefixed UTF-8 string at offset.
func (p *Page) String(offset int) string {
	return string(p.Bytes(offset))
}

// SetString writes val as a length-prefixed UTF-8 string at offset.
func (p *Page) SetString(offset int, val string) {
	p.SetBytes(offset, []byte(val))
}

// contents exposes the raw backing buffer to the file manager for I/O; it
// is not part of the Page's public contract used by higher layers.
func (p *Page) contents() []byte {
	return p.buf
}
