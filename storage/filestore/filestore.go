// Package filestore persists the client's key-value state as a single JSON
// document on disk. Writes go through a temp file and rename so a crash mid
// write never leaves a torn document. When a secret is supplied the on-disk
// blob is sealed with ChaCha20-Poly1305, standing in for the phone's secure
// storage.
package filestore

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/jrsteele09/go-travel-client/storage"
)

const keyDerivationInfo = "go-travel-client/filestore/v1"

// Store is a file-backed storage.Repo.
type Store struct {
	path string
	aead []byte // derived key, nil when the store is plaintext
	lock sync.Mutex
}

var _ storage.Repo = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithSecret derives an encryption key from secret and seals the file with
// ChaCha20-Poly1305. The same secret must be supplied to read the file back.
func WithSecret(secret []byte) Option {
	return func(s *Store) error {
		if len(secret) == 0 {
			return errors.New("[filestore.WithSecret] empty secret")
		}
		key := make([]byte, chacha20poly1305.KeySize)
		kdf := hkdf.New(sha256.New, secret, nil, []byte(keyDerivationInfo))
		if _, err := io.ReadFull(kdf, key); err != nil {
			return errors.Wrap(err, "[filestore.WithSecret] key derivation")
		}
		s.aead = key
		return nil
	}
}

// New creates a Store writing to path. The parent directory is created if
// missing.
func New(path string, options ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("[filestore.New] path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "[filestore.New] mkdir")
	}
	s := &Store{path: path}
	for _, opt := range options {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Get(key string) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	values, err := s.load()
	if err != nil {
		return "", storage.NewStorageError("get", key, err)
	}
	value, ok := values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	values, err := s.load()
	if err != nil {
		return storage.NewStorageError("set", key, err)
	}
	values[key] = value
	if err := s.save(values); err != nil {
		return storage.NewStorageError("set", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	values, err := s.load()
	if err != nil {
		return storage.NewStorageError("delete", key, err)
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if err := s.save(values); err != nil {
		return storage.NewStorageError("delete", key, err)
	}
	return nil
}

func (s *Store) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return storage.NewStorageError("clear", "", err)
	}
	return nil
}

func (s *Store) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	if s.aead != nil {
		raw, err = s.open(raw)
		if err != nil {
			return nil, err
		}
	}
	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	if s.aead != nil {
		raw, err = s.seal(raw)
		if err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*")
	if err != nil {
		return errors.Wrap(err, "temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "rename")
	}
	return nil
}

func (s *Store) seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.aead)
	if err != nil {
		return nil, errors.Wrap(err, "cipher")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *Store) open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.aead)
	if err != nil {
		return nil, errors.Wrap(err, "cipher")
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("sealed blob too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	return plaintext, nil
}
