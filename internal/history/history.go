package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists committed searches in a local sqlite database, so the
// browser can offer them again across sessions.
type Store struct {
	db *sql.DB
}

// Entry одна сохраненная поисковая строка
type Entry struct {
	Query string
	At    time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS searches (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores a committed search. Empty strings and a repeat of the most
// recent entry are skipped.
func (s *Store) Add(query string) error {
	if query == "" {
		return nil
	}
	var last string
	err := s.db.QueryRow(`SELECT query FROM searches ORDER BY id DESC LIMIT 1`).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read last search: %w", err)
	}
	if last == query {
		return nil
	}
	if _, err := s.db.Exec(`INSERT INTO searches (query) VALUES (?)`, query); err != nil {
		return fmt.Errorf("store search: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`SELECT query, at FROM searches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("read searches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Query, &e.At); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
