package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Manager is the File Manager: it owns a database directory and mediates
// every block-level read, write, and append against the files within it.
// One instance is shared process-wide; all operations are serialized by a
// single mutex guarding the open-file table, matching a single writer per
// open file.
type Manager struct {
	mu        sync.Mutex
	dbDir     string
	blockSize int
	isNew     bool
	openFiles map[string]*os.File
	log       zerolog.Logger
}

// NewManager opens (creating if necessary) the database directory dbDir,
// deletes any file whose name begins with "temp", and returns a Manager
// with the given block size. log is stored as given; a zero-value
// zerolog.Logger writes nothing.
func NewManager(dbDir string, blockSize int, log zerolog.Logger) (*Manager, error) {
	isNew := false
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		isNew = true
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, fmt.Errorf("file: create db dir: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("file: stat db dir: %w", err)
	}

	entries, err := os.ReadDir(dbDir)
	if err != nil {
		return nil, fmt.Errorf("file: read db dir: %w", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "temp") {
			if err := os.Remove(filepath.Join(dbDir, e.Name())); err != nil {
				return nil, fmt.Errorf("file: remove temp file %s: %w", e.Name(), err)
			}
		}
	}

	return &Manager{
		dbDir:     dbDir,
		blockSize: blockSize,
		isNew:     isNew,
		openFiles: map[string]*os.File{},
		log:       log,
	}, nil
}

func (m *Manager) BlockSize() int {
	return m.blockSize
}

func (m *Manager) IsNew() bool {
	return m.isNew
}

// getFile returns the open file handle for filename, opening it for
// read+write+create with synchronous writes if not already open. Callers
// must hold m.mu.
func (m *Manager) getFile(filename string) (*os.File, error) {
	if f, ok := m.openFiles[filename]; ok {
		return f, nil
	}

	f, err := os.OpenFile(filepath.Join(m.dbDir, filename), os.O_RDWR|os.O_CREATE|os.O_SYNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file: open %s: %w", filename, err)
	}
	m.openFiles[filename] = f
	return f, nil
}

// Read fills page's buffer with the contents of block.
func (m *Manager) Read(block BlockID, page *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.getFile(block.FileName())
	if err != nil {
		return err
	}

	n, err := f.ReadAt(page.contents(), int64(block.Number())*int64(m.blockSize))
	if err != nil && n == 0 {
		// A block that has never been written reads as all zeros.
		for i := range page.contents() {
			page.contents()[i] = 0
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("file: read %s: %w", block, err)
	}
	return nil
}

// Write persists page's buffer to block.
func (m *Manager) Write(block BlockID, page *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.getFile(block.FileName())
	if err != nil {
		return err
	}

	if _, err := f.WriteAt(page.contents(), int64(block.Number())*int64(m.blockSize)); err != nil {
		return fmt.Errorf("file: write %s: %w", block, err)
	}
	m.log.Debug().Stringer("block", block).Msg("wrote block")
	return nil
}

// Append extends filename by one zeroed block and returns its BlockID.
func (m *Manager) Append(filename string) (BlockID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	length, err := m.length(filename)
	if err != nil {
		return BlockID{}, err
	}

	block := NewBlockID(filename, length)
	f, err := m.getFile(filename)
	if err != nil {
		return BlockID{}, err
	}

	zeros := make([]byte, m.blockSize)
	if _, err := f.WriteAt(zeros, int64(block.Number())*int64(m.blockSize)); err != nil {
		return BlockID{}, fmt.Errorf("file: append %s: %w", filename, err)
	}
	return block, nil
}

// Length returns the number of blocks in filename.
func (m *Manager) Length(filename string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.length(filename)
}

// length is Length without locking; callers must hold m.mu.
func (m *Manager) length(filename string) (int, error) {
	f, err := m.getFile(filename)
	if err != nil {
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("file: stat %s: %w", filename, err)
	}
	return int(info.Size()) / m.blockSize, nil
}

// Close releases every open file handle. Intended for tests and graceful
// shutdown.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for name, f := range m.openFiles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("file: close %s: %w", name, err)
		}
	}
	m.openFiles = map[string]*os.File{}
	return firstErr
}
