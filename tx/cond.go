package tx

import (
	"sync"
	"time"
)

// cond is a sync.Cond with a bounded Wait; see buffer.cond for the same
// pattern applied to the buffer pool's availability signal. Duplicated
// here rather than shared because it is a handful of lines specific to
// each package's own mutex.
type cond struct {
	L *sync.Mutex
	c *sync.Cond
}

func newCond() *cond {
	var mu sync.Mutex
	return &cond{L: &mu, c: sync.NewCond(&mu)}
}

func (c *cond) Broadcast() {
	c.c.Broadcast()
}

func (c *cond) WaitTimeout(d time.Duration) {
	timer := time.AfterFunc(d, c.c.Broadcast)
	defer timer.Stop()
	c.c.Wait()
}
