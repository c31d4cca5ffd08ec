package db

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/corvidb/corvidb/tx"
)

// Session wraps one transaction with a random ID that tags the log line of
// every statement run through it, so the server's logs can be grepped per
// session. The serve command opens a fresh session for each statement.
type Session struct {
	ID  uuid.UUID
	db  *DB
	tx  tx.Transaction
	log zerolog.Logger
}

// NewSession starts a fresh transaction and assigns it a random ID.
func (d *DB) NewSession() (*Session, error) {
	t, err := d.NewTx()
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	return &Session{
		ID:  id,
		db:  d,
		tx:  t,
		log: d.log.With().Str("session", id.String()).Logger(),
	}, nil
}

// Exec runs one statement on the session's transaction.
func (s *Session) Exec(statement string) (Result, error) {
	s.log.Debug().Str("statement", statement).Msg("executing statement")
	return s.db.Exec(s.tx, statement)
}

// Commit commits the session's transaction. The session cannot be reused
// afterward.
func (s *Session) Commit() error {
	return s.tx.Commit()
}

// Rollback rolls back the session's transaction. The session cannot be
// reused afterward.
func (s *Session) Rollback() error {
	return s.tx.Rollback()
}
