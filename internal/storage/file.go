package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

const (
	lockTimeout       = 3 * time.Second
	lockRetryInterval = 50 * time.Millisecond
)

// FileStore keeps every key in a single JSON document on disk. Each operation
// takes an exclusive flock on "<path>.lock" and rereads the file, so several
// processes may share one store; last writer wins per key.
//
// A data file that fails to parse is moved to "<path>.corrupt" and the store
// starts empty; the next write produces a fresh file.
type FileStore struct {
	path   string
	lock   *flock.Flock
	logger *zap.Logger
	mu     sync.Mutex
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets the logger used to report a corrupt data file.
func WithFileLogger(logger *zap.Logger) FileOption {
	return func(f *FileStore) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFileStore opens a file-backed KV at path, creating parent directories.
func NewFileStore(path string, opts ...FileOption) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	f := &FileStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Get implements KV.
func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := f.withLock(ctx, func() error {
		data, err := f.load()
		if err != nil {
			return err
		}
		v, ok := data[key]
		if !ok {
			return ErrNotFound
		}
		value = []byte(v)
		return nil
	})
	return value, err
}

// Set implements KV.
func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	return f.withLock(ctx, func() error {
		data, err := f.load()
		if err != nil {
			return err
		}
		data[key] = string(value)
		return f.save(data)
	})
}

// Delete implements KV.
func (f *FileStore) Delete(ctx context.Context, key string) error {
	return f.withLock(ctx, func() error {
		data, err := f.load()
		if err != nil {
			return err
		}
		if _, ok := data[key]; !ok {
			return nil
		}
		delete(data, key)
		return f.save(data)
	})
}

// Keys implements KV.
func (f *FileStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := f.withLock(ctx, func() error {
		data, err := f.load()
		if err != nil {
			return err
		}
		for k := range data {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		return nil
	})
	sort.Strings(keys)
	return keys, err
}

// Close implements KV.
func (f *FileStore) Close() error {
	return f.lock.Close()
}

// Path returns the data file location.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) withLock(ctx context.Context, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := f.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return errors.New("could not acquire lock: timeout")
	}
	defer func() { _ = f.lock.Unlock() }()

	return fn()
}

// load reads the data file. A missing file is an empty store, and so is a
// corrupt one once it has been moved aside.
func (f *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		aside := f.path + ".corrupt"
		f.logger.Warn("discarding corrupt store file",
			zap.String("path", f.path),
			zap.String("moved_to", aside),
			zap.Error(err),
		)
		if err := os.Rename(f.path, aside); err != nil {
			return nil, fmt.Errorf("failed to move corrupt store %s: %w", f.path, err)
		}
		return map[string]string{}, nil
	}
	return data, nil
}

// save writes to a temp file and renames it over the data file.
func (f *FileStore) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
