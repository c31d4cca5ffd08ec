package buffer

import (
	"sync"
	"time"
)

// cond is a sync.Cond with a bounded Wait, since the standard library's
// condition variable has no timeout primitive. A timer broadcasts once it
// fires so a timed-out waiter wakes the same way a genuinely-notified one
// does; the caller re-checks its condition either way.
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

// WaitTimeout waits for a Broadcast for at most d. Callers must hold c.L
// and re-check their condition upon return, as with any condition variable.
func (c *cond) WaitTimeout(d time.Duration) {
	timer := time.AfterFunc(d, c.c.Broadcast)
	defer timer.Stop()
	c.c.Wait()
}
