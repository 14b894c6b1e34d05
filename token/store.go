// Package token persists the session credentials the client receives from
// the TripGo backend: the access/refresh token pair and a cached copy of the
// signed-in user's info. Reads never fail: a broken store or malformed
// record degrades to absent so the app can fall back to anonymous.
package token

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-travel-client/storage"
)

// Storage keys. These match the keys the mobile client used, so a state file
// written by one build remains readable by the next.
const (
	accessTokenKey  = "accessToken"
	refreshTokenKey = "refreshToken"
	userInfoKey     = "userInfo"
)

// UserInfo is the cached record of the signed-in account. It is written at
// login and not touched by the refresh flow, so it can go stale until the
// next login.
type UserInfo struct {
	AccountID int64    `json:"accountId"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

// Store wraps a storage.Repo with the token persistence contract.
type Store struct {
	repo storage.Repo
}

// NewStore creates a Store over repo.
func NewStore(repo storage.Repo) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[token.NewStore] storage repo is required")
	}
	return &Store{repo: repo}, nil
}

// SaveTokens overwrites both tokens. The two writes are not transactional; a
// crash between them can leave one token stale, which the refresh flow
// recovers from on the next 401.
func (s *Store) SaveTokens(access, refresh string) error {
	if err := s.repo.Set(accessTokenKey, access); err != nil {
		return errors.Wrap(err, "[Store.SaveTokens] access token")
	}
	if err := s.repo.Set(refreshTokenKey, refresh); err != nil {
		return errors.Wrap(err, "[Store.SaveTokens] refresh token")
	}
	return nil
}

// AccessToken returns the stored access token. Storage failures are swallowed
// and reported as absent.
func (s *Store) AccessToken() (string, bool) {
	return s.read(accessTokenKey)
}

// RefreshToken returns the stored refresh token. Storage failures are
// swallowed and reported as absent.
func (s *Store) RefreshToken() (string, bool) {
	return s.read(refreshTokenKey)
}

// SaveUserInfo caches the signed-in user's record as JSON text.
func (s *Store) SaveUserInfo(user UserInfo) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[Store.SaveUserInfo] encode")
	}
	if err := s.repo.Set(userInfoKey, string(raw)); err != nil {
		return errors.Wrap(err, "[Store.SaveUserInfo] write")
	}
	return nil
}

// UserInfo returns the cached user record. Malformed stored data is treated
// as absent, not an error.
func (s *Store) UserInfo() (UserInfo, bool) {
	raw, ok := s.read(userInfoKey)
	if !ok {
		return UserInfo{}, false
	}
	var user UserInfo
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Warn().Err(err).Msg("discarding malformed cached user info")
		return UserInfo{}, false
	}
	return user, true
}

// ClearAll removes the token pair and the cached user info.
func (s *Store) ClearAll() error {
	for _, key := range []string{accessTokenKey, refreshTokenKey, userInfoKey} {
		if err := s.repo.Delete(key); err != nil {
			return errors.Wrapf(err, "[Store.ClearAll] %s", key)
		}
	}
	return nil
}

// IsAuthenticated reports whether an access token is present. It is purely a
// presence check; expiry and signature are the backend's to judge.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.AccessToken()
	return ok
}

func (s *Store) read(key string) (string, bool) {
	value, err := s.repo.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("storage read failed, treating as absent")
		return "", false
	}
	if value == "" {
		return "", false
	}
	return value, true
}
