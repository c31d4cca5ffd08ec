// Package wal implements the write-ahead log: an append-only sequence of
// opaque byte records, writable only from the high end of each block
// downward, with both newest-to-oldest and oldest-to-newest iteration.
package wal

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/corvidb/corvidb/file"
)

// Manager is the Log Manager. A single instance is shared by every
// transaction in the process; it holds the current tail block in memory
// and assigns a strictly increasing LSN to every appended record.
type Manager struct {
	mu           sync.Mutex
	fm           *file.Manager
	logfile      string
	logpage      *file.Page
	currentBlock file.BlockID
	latestLSN    int
	lastSavedLSN int
	log          zerolog.Logger
}

// NewManager opens (or creates) logfile within fm's database directory. If
// the file is empty, a fresh tail block is appended; otherwise the last
// block is loaded and its boundary read back.
func NewManager(fm *file.Manager, logfile string, log zerolog.Logger) (*Manager, error) {
	m := &Manager{
		fm:      fm,
		logfile: logfile,
		log:     log,
	}

	length, err := fm.Length(logfile)
	if err != nil {
		return nil, err
	}

	if length == 0 {
		block, err := m.appendNewBlock()
		if err != nil {
			return nil, err
		}
		m.currentBlock = block
		return m, nil
	}

	m.currentBlock = file.NewBlockID(logfile, length-1)
	m.logpage = file.NewPageWithSize(fm.BlockSize())
	if err := fm.Read(m.currentBlock, m.logpage); err != nil {
		return nil, err
	}
	return m, nil
}

// Append writes record to the tail block, flushing and rolling over to a
// fresh block first if it does not fit, and returns the record's LSN. The
// in-memory tail page is not written to disk by Append; callers requiring
// durability must call Flush with the returned LSN (or higher).
func (m *Manager) Append(record []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	boundary := m.logpage.Int(0)
	recsize := len(record)
	bytesNeeded := recsize + file.IntSize

	if boundary-bytesNeeded < file.IntSize {
		if err := m.flushLocked(); err != nil {
			return 0, err
		}
		block, err := m.appendNewBlock()
		if err != nil {
			return 0, err
		}
		m.currentBlock = block
		boundary = m.logpage.Int(0)
	}

	recpos := boundary - bytesNeeded
	m.logpage.SetBytes(recpos, record)
	m.logpage.SetInt(0, recpos)

	m.latestLSN++
	return m.latestLSN, nil
}

// Flush persists the tail block to disk if lsn is newer than the last
// flushed LSN.
func (m *Manager) Flush(lsn int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lsn <= m.lastSavedLSN {
		return nil
	}
	return m.flushLocked()
}

func (m *Manager) flushLocked() error {
	if err := m.fm.Write(m.currentBlock, m.logpage); err != nil {
		return err
	}
	m.lastSavedLSN = m.latestLSN
	m.log.Debug().Stringer("block", m.currentBlock).Int("lsn", m.lastSavedLSN).Msg("flushed log tail")
	return nil
}

// Iterator flushes the tail block and returns a newest-to-oldest iterator
// starting from the current tail's boundary.
func (m *Manager) Iterator() (*Iterator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.flushLocked(); err != nil {
		return nil, err
	}
	return newIterator(m.fm, m.currentBlock)
}

// appendNewBlock extends the log file by one block and initializes its
// boundary word to the block size (empty record region). Callers must
// hold m.mu.
func (m *Manager) appendNewBlock() (file.BlockID, error) {
	block, err := m.fm.Append(m.logfile)
	if err != nil {
		return file.BlockID{}, err
	}

	page := file.NewPageWithSize(m.fm.BlockSize())
	page.SetInt(0, m.fm.BlockSize())
	if err := m.fm.Write(block, page); err != nil {
		return file.BlockID{}, err
	}
	m.logpage = page
	return block, nil
}
