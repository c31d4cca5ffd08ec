package record

import (
	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/tx"
)

// Slot flags, per spec §3: each slot begins with a 4-byte used/empty flag.
const (
	slotEmpty = 0
	slotUsed  = 1
)

// RecordPage is a view of one block under a layout: a linear sequence of
// fixed-size slots, each a flag word followed by its fields at their
// declared offsets. Records are unspanned: every slot's fields live
// entirely within this one block.
type RecordPage struct {
	tx     tx.Transaction
	block  file.BlockID
	layout Layout
}

// NewRecordPage pins block and returns a RecordPage over it. Callers own
// the resulting pin and must Close it.
func NewRecordPage(t tx.Transaction, block file.BlockID, layout Layout) (*RecordPage, error) {
	if err := t.Pin(block); err != nil {
		return nil, err
	}
	return &RecordPage{tx: t, block: block, layout: layout}, nil
}

func (p *RecordPage) Block() file.BlockID {
	return p.block
}

// Close unpins the block backing this record page.
func (p *RecordPage) Close() {
	p.tx.Unpin(p.block)
}

func (p *RecordPage) offset(slot int) int {
	return slot * p.layout.SlotSize()
}

func (p *RecordPage) Int(slot int, fieldname string) (int, error) {
	pos := p.offset(slot) + p.layout.Offset(fieldname)
	return p.tx.GetInt(p.block, pos)
}

func (p *RecordPage) String(slot int, fieldname string) (string, error) {
	pos := p.offset(slot) + p.layout.Offset(fieldname)
	return p.tx.GetString(p.block, pos)
}

func (p *RecordPage) SetInt(slot int, fieldname string, val int) error {
	pos := p.offset(slot) + p.layout.Offset(fieldname)
	return p.tx.SetInt(p.block, pos, val, true)
}

func (p *RecordPage) SetString(slot int, fieldname string, val string) error {
	pos := p.offset(slot) + p.layout.Offset(fieldname)
	return p.tx.SetString(p.block, pos, val, true)
}

func (p *RecordPage) Delete(slot int) error {
	return p.setFlag(slot, slotEmpty)
}

func (p *RecordPage) setFlag(slot, flag int) error {
	return p.tx.SetInt(p.block, p.offset(slot), flag, true)
}

// Format lays down slotEmpty flags and zero/empty field values across
// every slot that fits in the block. It is not logged: a freshly appended
// block has no prior state for undo to restore.
func (p *RecordPage) Format() error {
	schema := p.layout.Schema()
	for slot := 0; p.isValidSlot(slot); slot++ {
		if err := p.tx.SetInt(p.block, p.offset(slot), slotEmpty, false); err != nil {
			return err
		}
		for _, f := range schema.Fields() {
			pos := p.offset(slot) + p.layout.Offset(f)
			switch schema.Type(f) {
			case file.INTEGER:
				if err := p.tx.SetInt(p.block, pos, 0, false); err != nil {
					return err
				}
			case file.STRING:
				if err := p.tx.SetString(p.block, pos, "", false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// NextAfter returns the next used slot strictly after slot, or -1 if none
// remains in this block.
func (p *RecordPage) NextAfter(slot int) (int, error) {
	return p.searchAfter(slot, slotUsed)
}

// InsertAfter finds the next empty slot strictly after slot, flags it used,
// and returns it; -1 if the block has no empty slot left.
func (p *RecordPage) InsertAfter(slot int) (int, error) {
	next, err := p.searchAfter(slot, slotEmpty)
	if err != nil {
		return -1, err
	}
	if next >= 0 {
		if err := p.setFlag(next, slotUsed); err != nil {
			return -1, err
		}
	}
	return next, nil
}

func (p *RecordPage) searchAfter(slot, flag int) (int, error) {
	slot++
	for p.isValidSlot(slot) {
		v, err := p.tx.GetInt(p.block, p.offset(slot))
		if err != nil {
			return -1, err
		}
		if v == flag {
			return slot, nil
		}
		slot++
	}
	return -1, nil
}

func (p *RecordPage) isValidSlot(slot int) bool {
	return p.offset(slot+1) <= p.tx.BlockSize()
}
