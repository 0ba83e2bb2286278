package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store persists the boss challenge state. All timestamps are stored in UTC.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open connects to the sqlite database at dbPath and ensures all tables exist.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// sqlite allows one writer; a single connection keeps read-modify-write calls serialized.
	db.SetMaxOpenConns(1)

	s, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing connection and creates the schema.
func NewStore(db *sqlx.DB) (*Store, error) {
	s := &Store{db: db, now: time.Now}
	if err := s.createTables(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetClock replaces the time source, used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Store) createTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS participants (
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0 CHECK (progress >= 0),
			joined_at DATETIME NOT NULL,
			last_completion_at DATETIME,
			reset_at DATETIME,
			next_extreme_boss TEXT,
			PRIMARY KEY (guild_id, user_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_participants_board ON participants (guild_id, mode, progress DESC);`,
		`CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			completion_time DATETIME NOT NULL,
			completion_order INTEGER NOT NULL,
			UNIQUE (guild_id, difficulty, completion_order)
		);`,
		`CREATE TABLE IF NOT EXISTS extreme_archive (
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			last_completion_at DATETIME,
			next_extreme_boss TEXT,
			archived_at DATETIME NOT NULL,
			PRIMARY KEY (guild_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			before_path TEXT NOT NULL,
			after_path TEXT NOT NULL,
			submitted_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS discord_resources (
			guild_id TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			resource_id TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL,
			PRIMARY KEY (guild_id, resource_type)
		);`,
		`CREATE TABLE IF NOT EXISTS guild_settings (
			guild_id TEXT NOT NULL PRIMARY KEY,
			locked BOOLEAN NOT NULL DEFAULT FALSE
		);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create challenge tables: %w", err)
		}
	}
	return nil
}
