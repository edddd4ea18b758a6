package repos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// SessionStorage keeps Fiber session blobs in the sessions table. It
// satisfies fiber.Storage.
type SessionStorage struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSessionStorage(db *sqlx.DB) *SessionStorage {
	return &SessionStorage{db: db, now: time.Now}
}

// Get returns nil, nil for unknown or expired keys.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var data []byte
	err := s.db.Get(&data, `
	  SELECT data FROM sessions
	  WHERE id = ? AND (expires_at = 0 OR expires_at > ?)`, key, s.now().Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}
	return data, nil
}

// Set stores val under key; exp <= 0 means the row never expires.
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	var expiresAt int64
	if exp > 0 {
		expiresAt = s.now().Add(exp).Unix()
	}
	_, err := s.db.Exec(`
	  INSERT INTO sessions(id, data, expires_at) VALUES(?, ?, ?)
	  ON CONFLICT(id) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at
	`, key, val, expiresAt)
	return errors.Wrap(err, "set session")
}

func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, key)
	return errors.Wrap(err, "delete session")
}

func (s *SessionStorage) Reset() error {
	_, err := s.db.Exec(`DELETE FROM sessions`)
	return errors.Wrap(err, "reset sessions")
}

// Close is a no-op; the database handle belongs to the caller.
func (s *SessionStorage) Close() error { return nil }

// Sweep removes expired rows and reports how many were deleted.
func (s *SessionStorage) Sweep(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at > 0 AND expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, errors.Wrap(err, "sweep sessions")
	}
	return res.RowsAffected()
}
