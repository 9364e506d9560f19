package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// SQLKV stores the key-value pairs in a single kv_entries table, reached
// through whichever SQL engine the dialect describes.
type SQLKV struct {
	db *DB
}

// OpenSQL connects to the SQL engine and ensures the kv_entries table exists.
func OpenSQL(dialect Dialect, dialectConfig DialectConfig) (*SQLKV, error) {
	db, err := openDB(dialect, dialectConfig)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(db.Dialect.CreateTableQuery()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv_entries table: %w", err)
	}

	return &SQLKV{db: db}, nil
}

// Get reads the value stored under key
func (s *SQLKV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT v FROM kv_entries WHERE k = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes the value under key, replacing any previous value
func (s *SQLKV) Set(key, value string) error {
	if _, err := s.db.Exec(s.db.Dialect.UpsertQuery(), key, value); err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Remove deletes the key; removing an absent key is not an error
func (s *SQLKV) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_entries WHERE k = ?", key); err != nil {
		return fmt.Errorf("removing key %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection
func (s *SQLKV) Close() error {
	return s.db.Close()
}
