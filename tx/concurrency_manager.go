package tx

import "github.com/corvidb/corvidb/file"

type lockKind int

const (
	noLock lockKind = iota
	sharedLock
	exclusiveLock
)

type heldLock struct {
	kind  lockKind
	block file.BlockID
}

// concurrencyManager is the per-transaction view onto the shared
// lockTable: it remembers which locks this transaction currently holds so
// that repeated requests for the same block are no-ops or promotions
// rather than redundant lockTable calls, and so that Release can unlock
// exactly the set this transaction acquired.
type concurrencyManager struct {
	table *lockTable
	held  map[string]heldLock
}

func newConcurrencyManager(table *lockTable) *concurrencyManager {
	return &concurrencyManager{
		table: table,
		held:  map[string]heldLock{},
	}
}

func (c *concurrencyManager) SLock(block file.BlockID) error {
	key := block.String()
	if c.held[key].kind != noLock {
		return nil
	}
	if err := c.table.SLock(block); err != nil {
		return err
	}
	c.held[key] = heldLock{kind: sharedLock, block: block}
	return nil
}

func (c *concurrencyManager) XLock(block file.BlockID) error {
	key := block.String()
	switch c.held[key].kind {
	case exclusiveLock:
		return nil
	case sharedLock:
		if err := c.table.PromoteToXLock(block); err != nil {
			return err
		}
	default:
		if err := c.table.XLock(block); err != nil {
			return err
		}
	}
	c.held[key] = heldLock{kind: exclusiveLock, block: block}
	return nil
}

// Release unlocks every block this transaction holds a lock on.
func (c *concurrencyManager) Release() {
	for _, h := range c.held {
		c.table.Unlock(h.block)
	}
	c.held = map[string]heldLock{}
}
