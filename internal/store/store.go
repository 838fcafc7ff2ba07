// Package store provides the persistent record store: named partitions of
// JSON documents backed by a single SQLite database. Each manager owns one
// or two partitions and treats them as load-modify-save documents, the same
// way the original browser build used localStorage keys. The store assumes a
// single active writer process; it does not coordinate across processes.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Partition names. Every persistent concern gets its own partition so each
// can be cleared independently.
const (
	PartitionConversations      = "conversations"
	PartitionActiveConversation = "active_conversation"
	PartitionVoiceHistory       = "voice_history"
	PartitionPDFHistory         = "pdf_history"
	PartitionReminders          = "reminders"
	PartitionNotifications      = "notifications"
	PartitionMetrics            = "metrics"
	PartitionEmailOutbox        = "email_outbox"
	PartitionNotes              = "notes"
	PartitionTodos              = "todos"
	PartitionSettings           = "settings"
	PartitionTokenUsage         = "token_usage"
	PartitionUser               = "user"
	PartitionUsers              = "users"
)

// Store is the SQLite-backed partition store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and ensures the partitions
// table exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS partitions (
			name       TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw JSON document stored in the named partition.
// The second return value reports whether the partition exists.
func (s *Store) Get(name string) ([]byte, bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM partitions WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read partition %q: %w", name, err)
	}
	return []byte(data), true, nil
}

// Put replaces the document stored in the named partition.
func (s *Store) Put(name string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO partitions (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, name, string(data), now)
	if err != nil {
		return fmt.Errorf("failed to write partition %q: %w", name, err)
	}
	return nil
}

// Clear removes the named partition entirely. Clearing a partition that does
// not exist is a no-op.
func (s *Store) Clear(name string) error {
	if _, err := s.db.Exec(`DELETE FROM partitions WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to clear partition %q: %w", name, err)
	}
	return nil
}

// Load unmarshals the partition's document into v. If the partition does not
// exist, v is left untouched and found is false.
func (s *Store) Load(name string, v interface{}) (found bool, err error) {
	data, ok, err := s.Get(name)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode partition %q: %w", name, err)
	}
	return true, nil
}

// Save marshals v and stores it in the named partition.
func (s *Store) Save(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode partition %q: %w", name, err)
	}
	return s.Put(name, data)
}
