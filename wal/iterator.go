package wal

import "github.com/corvidb/corvidb/file"

// Iterator walks log records newest-to-oldest: within a block from the
// boundary forward (increasing offset, i.e. ever older records) and, on
// reaching the block's end, to the previous block.
type Iterator struct {
	fm         *file.Manager
	block      file.BlockID
	page       *file.Page
	currentPos int
	boundary   int
}

func newIterator(fm *file.Manager, block file.BlockID) (*Iterator, error) {
	it := &Iterator{
		fm:    fm,
		page:  file.NewPageWithSize(fm.BlockSize()),
		block: block,
	}
	if err := it.moveToBlock(block); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *Iterator) moveToBlock(block file.BlockID) error {
	if err := it.fm.Read(block, it.page); err != nil {
		return err
	}
	it.block = block
	it.boundary = it.page.Int(0)
	it.currentPos = it.boundary
	return nil
}

// HasNext reports whether another (older) record remains.
func (it *Iterator) HasNext() bool {
	return it.currentPos < it.fm.BlockSize() || it.block.Number() > 0
}

// Next returns the next-oldest record. Callers must check HasNext first.
func (it *Iterator) Next() ([]byte, error) {
	if it.currentPos == it.fm.BlockSize() {
		prev := file.NewBlockID(it.block.FileName(), it.block.Number()-1)
		if err := it.moveToBlock(prev); err != nil {
			return nil, err
		}
	}

	rec := it.page.Bytes(it.currentPos)
	it.currentPos += file.IntSize + len(rec)
	return rec, nil
}

// ReverseIterator walks log records oldest-to-newest, built from a forward
// Iterator: for each block from the oldest (block 0) through the forward
// iterator's starting block, it collects every record's start offset by
// walking from that block's boundary to its end, then yields them back to
// front (i.e. highest offset / oldest-in-block first), before advancing to
// the next block.
type ReverseIterator struct {
	fm          *file.Manager
	filename    string
	lastBlock   int
	blockNum    int
	page        *file.Page
	offsets     []int
	offsetIndex int
}

// NewReverseIterator builds a reverse iterator that replays every block the
// given forward iterator could have visited, from oldest to newest.
func NewReverseIterator(fwd *Iterator) (*ReverseIterator, error) {
	r := &ReverseIterator{
		fm:        fwd.fm,
		filename:  fwd.block.FileName(),
		lastBlock: fwd.block.Number(),
		blockNum:  0,
		page:      file.NewPageWithSize(fwd.fm.BlockSize()),
	}
	if err := r.loadBlock(); err != nil {
		return nil, err
	}
	return r, nil
}

// loadBlock reads r.blockNum and rebuilds its forward-order offset list.
func (r *ReverseIterator) loadBlock() error {
	block := file.NewBlockID(r.filename, r.blockNum)
	if err := r.fm.Read(block, r.page); err != nil {
		return err
	}

	boundary := r.page.Int(0)
	var offsets []int
	pos := boundary
	for pos < r.fm.BlockSize() {
		offsets = append(offsets, pos)
		rec := r.page.Bytes(pos)
		pos += file.IntSize + len(rec)
	}
	r.offsets = offsets
	r.offsetIndex = len(offsets) - 1
	return nil
}

// HasNext reports whether another (newer) record remains.
func (r *ReverseIterator) HasNext() bool {
	if r.offsetIndex >= 0 {
		return true
	}
	return r.blockNum < r.lastBlock
}

// Next returns the next-newest record.
func (r *ReverseIterator) Next() ([]byte, error) {
	if r.offsetIndex < 0 {
		r.blockNum++
		if err := r.loadBlock(); err != nil {
			return nil, err
		}
	}

	offset := r.offsets[r.offsetIndex]
	r.offsetIndex--
	return r.page.Bytes(offset), nil
}
