package booking

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-travel-client/storage"
)

// bookingKey is the single storage slot a selection occupies. A new save
// silently overwrites any prior unconsumed selection.
const bookingKey = "hotelBooking"

// Store persists the single in-flight selection between the detail step and
// the payment step. There is no expiry: a selection survives restarts until
// it is overwritten or cleared.
type Store struct {
	repo storage.Repo
}

// NewStore creates a Store over repo.
func NewStore(repo storage.Repo) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[booking.NewStore] storage repo is required")
	}
	return &Store{repo: repo}, nil
}

// SaveBooking overwrites the slot with selection.
func (s *Store) SaveBooking(selection Selection) error {
	raw, err := json.Marshal(selection)
	if err != nil {
		return errors.Wrap(err, "[Store.SaveBooking] encode")
	}
	if err := s.repo.Set(bookingKey, string(raw)); err != nil {
		return errors.Wrap(err, "[Store.SaveBooking] write")
	}
	return nil
}

// GetBooking returns the stored selection. A missing slot or malformed
// stored data reads as absent; parse failures are logged.
func (s *Store) GetBooking() (Selection, bool) {
	raw, err := s.repo.Get(bookingKey)
	if errors.Is(err, storage.ErrNotFound) {
		return Selection{}, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("booking read failed, treating as absent")
		return Selection{}, false
	}
	var selection Selection
	if err := json.Unmarshal([]byte(raw), &selection); err != nil {
		log.Warn().Err(err).Msg("discarding malformed stored booking")
		return Selection{}, false
	}
	return selection, true
}

// ClearBooking removes the slot. Clearing after a successful payment is the
// caller's decision, not automatic.
func (s *Store) ClearBooking() error {
	if err := s.repo.Delete(bookingKey); err != nil {
		return errors.Wrap(err, "[Store.ClearBooking]")
	}
	return nil
}

// HasBooking reports whether a selection is stored.
func (s *Store) HasBooking() bool {
	_, ok := s.GetBooking()
	return ok
}
