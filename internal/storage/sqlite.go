package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStorage implements Storage using a SQLite key/value table.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (and creates if needed) the database at dbPath.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage database: %w", err)
	}

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS slots (
			slot_key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create slots table: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Get returns the slot value and true if the slot exists.
func (s *SQLiteStorage) Get(slot string) ([]byte, bool, error) {
	if s.db == nil {
		return nil, false, ErrClosed
	}

	var data []byte
	err := s.db.QueryRow("SELECT value FROM slots WHERE slot_key = ?", slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", slot, err)
	}
	return data, true, nil
}

// Set replaces the slot value.
func (s *SQLiteStorage) Set(slot string, data []byte) error {
	if s.db == nil {
		return ErrClosed
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO slots (slot_key, value, updated_at) VALUES (?, ?, ?)`,
		slot, data, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", slot, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
