// Package store keeps gob-encoded values under string keys in durable
// storage. Backends: a single file, SQLite and PostgreSQL.
package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// DefaultTable is used by the SQL backends when no table name is given.
const DefaultTable = "kv_store"

var (
	ErrBadName     = errors.New("bad name for store")
	ErrNotFound    = errors.New("value not found")
	ErrNotMigrated = errors.New("store table does not exist, run migrations first")
	ErrBadDriver   = errors.New("unknown store driver")
)

type Store interface {
	// Get decodes the value stored under key into value, which must be a
	// pointer or nil. If key is not present, [ErrNotFound] is returned.
	Get(ctx context.Context, key string, value any) error
	// Set inserts a new key-value pair or replaces an existing one.
	Set(ctx context.Context, key string, value any) error
	// Delete removes key without checking if it existed.
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

// Open connects to the backend named by cfg.Driver: "file", "sqlite" or
// "postgres".
func Open(ctx context.Context, cfg Config) (Store, error) {
	Log.WithFields(logrus.Fields{
		"driver": cfg.Driver,
		"table":  cfg.Table,
	}).Debug("opening store")

	switch cfg.Driver {
	case "file":
		return NewFile(cfg.DSN)
	case "sqlite", "sqlite3":
		return OpenSQLite(cfg.DSN, cfg.Table)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, cfg.DSN, cfg.Table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadDriver, cfg.Driver)
	}
}

func encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return nil, fmt.Errorf("unable to encode value: %w", err)
	}
	return buf.Bytes(), nil
}

// decode silently discards data when value is nil.
func decode(data []byte, value any) error {
	if value == nil {
		return nil
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(value); err != nil {
		return fmt.Errorf("unable to decode value: %w", err)
	}
	return nil
}

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

// validName guards table names that are spliced into SQL.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !isLetter(c) {
			return false
		}
	}
	return true
}
