package storefakes

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-travel-client/storage"
)

var _ storage.Repo = (*FakeStore)(nil)

// FakeStore is an in-memory storage.Repo for tests. FailWith makes every
// subsequent call fail, for exercising storage-degradation paths.
type FakeStore struct {
	values  map[string]string
	failure error
	lock    sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{values: make(map[string]string)}
}

// FailWith injects err into every subsequent call. Pass nil to heal.
func (fs *FakeStore) FailWith(err error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.failure = err
}

func (fs *FakeStore) Get(key string) (string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.failure != nil {
		return "", storage.NewStorageError("get", key, fs.failure)
	}
	value, ok := fs.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

func (fs *FakeStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.failure != nil {
		return storage.NewStorageError("set", key, fs.failure)
	}
	fs.values[key] = value
	return nil
}

func (fs *FakeStore) Delete(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.failure != nil {
		return storage.NewStorageError("delete", key, fs.failure)
	}
	delete(fs.values, key)
	return nil
}

func (fs *FakeStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.failure != nil {
		return storage.NewStorageError("clear", "", fs.failure)
	}
	fs.values = make(map[string]string)
	return nil
}

// Len reports the number of stored keys.
func (fs *FakeStore) Len() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return len(fs.values)
}

// ErrUnavailable is a convenience failure for FailWith.
var ErrUnavailable = errors.New("store unavailable")
