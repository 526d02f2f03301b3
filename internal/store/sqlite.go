package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite keeps the snapshot in a single-row key/value table.
type SQLite struct {
	db  *sql.DB
	key string
	log zerolog.Logger
}

// OpenSQLite opens or creates the database at dbPath and migrates it.
func OpenSQLite(dbPath, key string, log zerolog.Logger) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	if key == "" {
		key = DefaultKey
	}
	return &SQLite{db: db, key: key, log: log}, nil
}

// Load returns the stored records. A missing row or an unparsable value
// yields an empty ledger.
func (s *SQLite) Load(ctx context.Context) ([]model.Purchase, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.key, err)
	}

	records, err := Decode([]byte(value), s.log)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("discarding unreadable ledger snapshot")
		return nil, nil
	}
	return records, nil
}

// Save replaces the snapshot inside one transaction.
func (s *SQLite) Save(ctx context.Context, records []model.Purchase) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	s.log.Debug().Str("key", s.key).Int("records", len(records)).Msg("ledger saved")
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
