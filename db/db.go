// Package db wires the storage, transaction, catalog, and planning
// layers together behind one entry point: parse a statement, plan it,
// run it against a transaction.
package db

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/corvidb/corvidb/buffer"
	"github.com/corvidb/corvidb/file"
	"github.com/corvidb/corvidb/logging"
	"github.com/corvidb/corvidb/metadata"
	"github.com/corvidb/corvidb/plan"
	"github.com/corvidb/corvidb/tx"
	"github.com/corvidb/corvidb/wal"

	"github.com/rs/zerolog"
)

const logFileName = "corvidb.log"

// Config holds the tunables NewDB needs to bring up a database directory;
// zero-valued fields fall back to the defaults used throughout the test
// suite and the CLI.
type Config struct {
	BlockSize      int
	BufferPoolSize int
	MaxPinWait     time.Duration
	LockWait       time.Duration
	Registerer     prometheus.Registerer
	Logger         zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.BlockSize == 0 {
		c.BlockSize = 400
	}
	if c.BufferPoolSize == 0 {
		c.BufferPoolSize = 8
	}
	if c.MaxPinWait == 0 {
		c.MaxPinWait = 10 * time.Second
	}
	if c.LockWait == 0 {
		c.LockWait = 10 * time.Second
	}
	return c
}

// DB owns every layer of the engine rooted at one database directory: the
// file, log, and buffer managers, the transaction factory, the catalog,
// and the planner built on top of it.
type DB struct {
	fm *file.Manager
	lm *wal.Manager
	bm *buffer.Manager
	tf *tx.Factory

	planner *plan.Planner
	log     zerolog.Logger
}

// NewDB opens (or initializes) a database rooted at dirname, bootstraps
// its catalog if this is a fresh directory, and returns a DB ready to
// start transactions on.
func NewDB(dirname string, cfg Config) (*DB, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger

	fm, err := file.NewManager(dirname, cfg.BlockSize, logging.Child(log, "file"))
	if err != nil {
		return nil, fmt.Errorf("db: open file manager: %w", err)
	}
	lm, err := wal.NewManager(fm, logFileName, logging.Child(log, "wal"))
	if err != nil {
		return nil, fmt.Errorf("db: open log manager: %w", err)
	}
	bm := buffer.NewManager(fm, lm, cfg.BufferPoolSize, cfg.MaxPinWait, logging.Child(log, "buffer"), cfg.Registerer)
	tf := tx.NewFactory(fm, lm, bm, cfg.LockWait, logging.Child(log, "tx"), cfg.Registerer)

	d := &DB{fm: fm, lm: lm, bm: bm, tf: tf, log: log}

	bootstrapTx, err := tf.New()
	if err != nil {
		return nil, fmt.Errorf("db: start bootstrap transaction: %w", err)
	}

	if fm.IsNew() {
		log.Info().Msg("initializing new database")
	} else {
		log.Info().Msg("recovering existing database")
		if err := bootstrapTx.Recover(); err != nil {
			bootstrapTx.Rollback()
			return nil, fmt.Errorf("db: recover: %w", err)
		}
	}

	md, err := metadata.NewManager(bootstrapTx)
	if err != nil {
		bootstrapTx.Rollback()
		return nil, fmt.Errorf("db: bootstrap catalog: %w", err)
	}
	if err := bootstrapTx.Commit(); err != nil {
		return nil, fmt.Errorf("db: commit bootstrap transaction: %w", err)
	}

	d.planner = plan.NewPlanner(md)
	return d, nil
}

// NewTx starts a fresh transaction against this database.
func (d *DB) NewTx() (tx.Transaction, error) {
	return d.tf.New()
}

// BlockSize reports the page size this database was opened with.
func (d *DB) BlockSize() int {
	return d.fm.BlockSize()
}

// Close releases the file manager's open file handles.
func (d *DB) Close() error {
	return d.fm.Close()
}
