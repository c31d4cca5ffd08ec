package tx

import (
	"github.com/corvidb/corvidb/buffer"
	"github.com/corvidb/corvidb/file"
)

// bufferList tracks the buffers one transaction currently has pinned, and
// how many times it has pinned each. Every Pin and Unpin is passed through
// to the buffer manager one-for-one; the count decides when the buffer is
// forgotten and how many pins UnpinAll must release.
type bufferList struct {
	bm      *buffer.Manager
	buffers map[string]*buffer.Buffer
	pins    map[string]int
}

func newBufferList(bm *buffer.Manager) *bufferList {
	return &bufferList{
		bm:      bm,
		buffers: map[string]*buffer.Buffer{},
		pins:    map[string]int{},
	}
}

// Get returns the buffer this transaction has pinned for block, or nil if
// it has not pinned that block.
func (l *bufferList) Get(block file.BlockID) *buffer.Buffer {
	return l.buffers[block.String()]
}

// Pin pins block via the buffer manager and records the pin.
func (l *bufferList) Pin(block file.BlockID) error {
	buf, err := l.bm.Pin(block)
	if err != nil {
		return err
	}
	key := block.String()
	l.buffers[key] = buf
	l.pins[key]++
	return nil
}

// Unpin releases one pin on block, both in this list and in the buffer
// manager. Once this transaction's own count for the block reaches zero,
// the buffer is forgotten.
func (l *bufferList) Unpin(block file.BlockID) {
	key := block.String()
	buf, ok := l.buffers[key]
	if !ok {
		return
	}
	l.bm.Unpin(buf)

	if l.pins[key] <= 1 {
		delete(l.pins, key)
		delete(l.buffers, key)
	} else {
		l.pins[key]--
	}
}

// UnpinAll releases every buffer still pinned by this transaction.
func (l *bufferList) UnpinAll() {
	for key, buf := range l.buffers {
		for i := 0; i < l.pins[key]; i++ {
			l.bm.Unpin(buf)
		}
	}
	l.buffers = map[string]*buffer.Buffer{}
	l.pins = map[string]int{}
}
