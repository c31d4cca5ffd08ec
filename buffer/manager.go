package buffer

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/wal"
)

// ErrPinTimeout is returned by Pin when no buffer becomes available within
// the configured max wait.
var ErrPinTimeout = errors.New("buffer: timed out waiting for an available buffer")

// DefaultMaxPinWait is the default timeout for Pin, per the spec's tunables.
const DefaultMaxPinWait = 10 * time.Second

// Manager is the Buffer Manager: a fixed pool of page frames shared
// process-wide. Pin/unpin is the only way to touch a block's contents; a
// caller blocked waiting for a free frame is woken by an Unpin that
// releases a frame's last pin, via a condition variable rather than by
// polling, matching Go's native
// wait/notify primitive in place of the source's sleep-based workaround.
type Manager struct {
	cond       *cond
	pool       []*Buffer
	available  int
	maxPinWait time.Duration
	log        zerolog.Logger
	metrics    managerMetrics
}

type managerMetrics struct {
	available prometheus.Gauge
	pinWait   prometheus.Histogram
}

func newManagerMetrics(reg prometheus.Registerer) managerMetrics {
	m := managerMetrics{
		available: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "corvidb_buffer_pool_available",
			Help: "Number of currently unpinned buffer pool frames.",
		}),
		pinWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "corvidb_buffer_pin_wait_seconds",
			Help:    "Time spent waiting for a buffer frame to become available.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.available, m.pinWait)
	}
	return m
}

// NewManager builds a pool of size buffers over fm/lm. reg may be nil to
// skip metrics registration (e.g. in tests).
func NewManager(fm *file.Manager, lm *wal.Manager, size int, maxPinWait time.Duration, log zerolog.Logger, reg prometheus.Registerer) *Manager {
	pool := make([]*Buffer, size)
	for i := range pool {
		pool[i] = NewBuffer(fm, lm)
	}
	if maxPinWait <= 0 {
		maxPinWait = DefaultMaxPinWait
	}
	m := &Manager{
		cond:       newCond(),
		pool:       pool,
		available:  size,
		maxPinWait: maxPinWait,
		log:        log,
		metrics:    newManagerMetrics(reg),
	}
	m.metrics.available.Set(float64(size))
	return m
}

func (m *Manager) Available() int {
	m.cond.L.Lock()
	defer m.cond.L.Unlock()
	return m.available
}

// FlushAll flushes every buffer currently modified by txnum.
func (m *Manager) FlushAll(txnum TxID) error {
	m.cond.L.Lock()
	defer m.cond.L.Unlock()
	for _, b := range m.pool {
		if b.ModifyingTx() == txnum {
			if err := b.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Unpin releases the caller's pin on buf and wakes any pinners waiting for
// a free frame once it reaches zero pins.
func (m *Manager) Unpin(buf *Buffer) {
	m.cond.L.Lock()
	defer m.cond.L.Unlock()

	buf.unpin()
	if !buf.IsPinned() {
		m.available++
		m.metrics.available.Set(float64(m.available))
		m.cond.Broadcast()
	}
}

// Pin pins a buffer to block, waiting up to maxPinWait for a frame to free
// up if none is immediately available. Replacement is naive first-fit over
// the pool in slot order; this is deliberate, not an optimization
// placeholder, and must not be changed to LRU/clock.
func (m *Manager) Pin(block file.BlockID) (*Buffer, error) {
	start := time.Now()
	defer func() { m.metrics.pinWait.Observe(time.Since(start).Seconds()) }()

	m.cond.L.Lock()
	defer m.cond.L.Unlock()

	deadline := start.Add(m.maxPinWait)
	for {
		buf, err := m.tryToPinLocked(block)
		if err != nil {
			return nil, err
		}
		if buf != nil {
			return buf, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			m.log.Warn().Stringer("block", block).Msg("pin timed out")
			return nil, ErrPinTimeout
		}
		m.cond.WaitTimeout(remaining)
	}
}

// tryToPinLocked attempts to pin block without waiting. Callers must hold
// m.cond.L. Returns (nil, nil) if no buffer is currently available.
func (m *Manager) tryToPinLocked(block file.BlockID) (*Buffer, error) {
	b := m.findExistingBuffer(block)
	if b == nil {
		b = m.chooseUnpinnedBuffer()
		if b == nil {
			return nil, nil
		}
		if err := b.assignToBlock(block); err != nil {
			return nil, err
		}
	}

	if !b.IsPinned() {
		m.available--
		m.metrics.available.Set(float64(m.available))
	}
	b.pin()
	return b, nil
}

func (m *Manager) findExistingBuffer(block file.BlockID) *Buffer {
	for _, b := range m.pool {
		if b.hasBlock && b.block.Equals(block) {
			return b
		}
	}
	return nil
}

// chooseUnpinnedBuffer scans the pool in order and returns the first
// unpinned frame, or nil if every frame is pinned. Tests observe this
// ordering directly; it must stay naive first-fit.
func (m *Manager) chooseUnpinnedBuffer() *Buffer {
	for _, b := range m.pool {
		if !b.IsPinned() {
			return b
		}
	}
	return nil
}
