package database

import (
	"fmt"
	"strings"

	"examtrack/internal/config"
)

// KV is the persistence gateway. The whole encoded statistics store
// lives under a single key; an absent key is not an error.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Open creates the key-value backend selected by the configuration.
func Open(cfg *config.Config) (KV, error) {
	switch strings.ToLower(cfg.DatabaseType) {
	case "postgres", "postgresql":
		return OpenSQL(NewPostgresDialect(), DialectConfig{URL: cfg.DatabaseURL})
	case "mysql":
		return OpenSQL(NewMySQLDialect(), DialectConfig{URL: cfg.DatabaseURL})
	case "sqlite", "sqlite3", "":
		return OpenSQL(NewSQLiteDialect(), DialectConfig{Path: cfg.DatabasePath})
	case "bolt", "bbolt":
		return OpenBolt(cfg.DatabasePath)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DatabaseType)
	}
}
