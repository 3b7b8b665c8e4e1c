// Package storage provides the key-value backends used to persist search
// history and saved searches, plus an item table for the catalog.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/vitrine/internal/models"
)

// ErrNotFound is returned when a key or item does not exist.
var ErrNotFound = errors.New("not found")

// KV is a string-keyed store of opaque JSON blobs.
type KV interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns all keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	Close() error
}

// ItemStore persists catalog items.
type ItemStore interface {
	// ReplaceItems swaps the stored catalog for items atomically.
	ReplaceItems(ctx context.Context, items []*models.Item) error
	GetItem(ctx context.Context, id string) (*models.Item, error)
	// ListItems returns items ordered by ordinal, newest first.
	ListItems(ctx context.Context) ([]*models.Item, error)
	CountItems(ctx context.Context) (int64, error)
}

// Supported drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Driver        string
	DatabasePath  string
	FilePath      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Logger receives backend warnings. Nil means no logging.
	Logger *zap.Logger
}

// Open creates the backend named by opts.Driver.
func Open(opts Options) (KV, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverSQLite:
		s, err := NewSQLiteStorage(opts.DatabasePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverFile:
		f, err := NewFileStore(opts.FilePath, WithFileLogger(opts.Logger))
		if err != nil {
			return nil, err
		}
		return f, nil
	case DriverRedis:
		r, err := NewRedisStore(RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", opts.Driver)
	}
}
