package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/taskdeck/internal/model"
)

// UserKey is the key the user document is stored under.
const UserKey = "user"

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// KV is a small persistent key-value store. Values are opaque bytes; the
// user document is one JSON value under UserKey.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Timestamped is a KV that records when each key was last written.
type Timestamped interface {
	KV
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// LastSaved returns when key was last written. ok is false when kv does
// not record write times or the key was never written.
func LastSaved(ctx context.Context, kv KV, key string) (ts time.Time, ok bool, err error) {
	tkv, isTimestamped := kv.(Timestamped)
	if !isTimestamped {
		return time.Time{}, false, nil
	}
	ts, err = tkv.UpdatedAt(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return ts, true, nil
}

// Open returns the store selected by cfg.Driver.
func Open(cfg model.StorageConfig) (KV, error) {
	switch cfg.Driver {
	case model.StorageSQLite, "":
		return NewSQLiteStore(cfg.Path)
	case model.StorageKeyring:
		return NewKeyringStore(cfg.KeyringDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
