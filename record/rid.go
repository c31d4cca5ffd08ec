package record

import "fmt"

// RID (record identifier) locates a record by the number of the block it
// lives in and its slot within that block.
type RID struct {
	BlockNum int
	Slot     int
}

func NewRID(blockNum, slot int) RID {
	return RID{BlockNum: blockNum, Slot: slot}
}

func (r RID) Equals(other RID) bool {
	return r.BlockNum == other.BlockNum && r.Slot == other.Slot
}

func (r RID) String() string {
	return fmt.Sprintf("[block %d, slot %d]", r.BlockNum, r.Slot)
}
