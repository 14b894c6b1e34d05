// Package storage defines the key-value contract the client persists its
// local state through: tokens, cached user info, and the in-flight booking
// selection. Values are opaque strings keyed by name; there is no cross-key
// transaction guarantee.
package storage

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Repo is the device-local key-value store.
type Repo interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Clear() error
}

// StorageError wraps a failure of the underlying store. Callers that degrade
// gracefully (token reads, auth probes) match it with errors.As and treat the
// value as absent.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError builds a StorageError for the given operation and key.
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}
