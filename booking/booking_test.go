package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-travel-client/booking"
	clienterrors "github.com/jrsteele09/go-travel-client/internal/errors"
	"github.com/jrsteele09/go-travel-client/storage/storefakes"
)

var (
	testHotel = booking.HotelSummary{
		ID:         12,
		Name:       "Sunrise Bay Resort",
		Thumbnail:  "https://cdn.example.com/h/12.jpg",
		Address:    "12 Beach Road, Da Nang",
		StarRating: 5,
	}
	testRoom = booking.RoomSummary{
		ID:       301,
		Name:     "Deluxe Ocean View",
		Price:    1_000_000,
		Capacity: 2,
		Area:     32,
	}
)

func newStore(t *testing.T) *booking.Store {
	t.Helper()
	store, err := booking.NewStore(storefakes.NewFakeStore())
	require.NoError(t, err)
	return store
}

func TestNewSelectionComputesNightsAndTotal(t *testing.T) {
	selection, err := booking.NewSelection(testHotel, testRoom, "2026-09-10", "2026-09-12", 2)
	require.NoError(t, err)
	require.Equal(t, 2, selection.Nights)
	require.Equal(t, float64(2_000_000), selection.TotalPrice)
}

func TestNewSelectionRejectsInvertedDates(t *testing.T) {
	_, err := booking.NewSelection(testHotel, testRoom, "2026-09-12", "2026-09-10", 2)
	require.ErrorIs(t, err, clienterrors.ErrInvalidDates)
}

func TestNewSelectionRejectsZeroGuests(t *testing.T) {
	_, err := booking.NewSelection(testHotel, testRoom, "2026-09-10", "2026-09-12", 0)
	require.ErrorIs(t, err, clienterrors.ErrInvalidGuests)
}

func TestSaveAndGetBookingRoundTrip(t *testing.T) {
	store := newStore(t)
	selection, err := booking.NewSelection(testHotel, testRoom, "2026-09-10", "2026-09-12", 2)
	require.NoError(t, err)

	require.NoError(t, store.SaveBooking(selection))

	got, ok := store.GetBooking()
	require.True(t, ok)
	require.Equal(t, selection, got)
}

func TestNewSaveOverwritesPriorSelection(t *testing.T) {
	store := newStore(t)
	first, err := booking.NewSelection(testHotel, testRoom, "2026-09-10", "2026-09-12", 2)
	require.NoError(t, err)
	second, err := booking.NewSelection(testHotel, testRoom, "2026-10-01", "2026-10-04", 3)
	require.NoError(t, err)

	require.NoError(t, store.SaveBooking(first))
	require.NoError(t, store.SaveBooking(second))

	got, ok := store.GetBooking()
	require.True(t, ok)
	require.Equal(t, second, got)
}

func TestClearBookingLeavesSlotAbsent(t *testing.T) {
	store := newStore(t)
	selection, err := booking.NewSelection(testHotel, testRoom, "2026-09-10", "2026-09-12", 2)
	require.NoError(t, err)
	require.NoError(t, store.SaveBooking(selection))

	require.NoError(t, store.ClearBooking())

	_, ok := store.GetBooking()
	require.False(t, ok)
	require.False(t, store.HasBooking())
}

func TestMalformedStoredBookingIsAbsent(t *testing.T) {
	repo := storefakes.NewFakeStore()
	store, err := booking.NewStore(repo)
	require.NoError(t, err)
	require.NoError(t, repo.Set("hotelBooking", "{broken"))

	_, ok := store.GetBooking()
	require.False(t, ok)
}

// The slot is not cleared by issuing a payment QR; clearing is an explicit
// caller action.
func TestSelectionSurvivesPaymentTicket(t *testing.T) {
	store := newStore(t)
	selection, err := booking.NewSelection(testHotel, testRoom, "2026-09-10", "2026-09-12", 2)
	require.NoError(t, err)
	require.NoError(t, store.SaveBooking(selection))

	booking.NewQRTicket(selection, time.Now())

	require.True(t, store.HasBooking())
}

func TestQRTicketPayloadAndCountdown(t *testing.T) {
	selection, err := booking.NewSelection(testHotel, testRoom, "2026-09-10", "2026-09-12", 2)
	require.NoError(t, err)

	issued := time.UnixMilli(1_756_000_000_000)
	ticket := booking.NewQRTicket(selection, issued)
	require.Equal(t, "MOMO | Sunrise Bay Resort| 2000000| 1756000000000 ", ticket.Payload)
	require.Equal(t, float64(2_000_000), ticket.Amount)

	remaining, err := ticket.Remaining(issued.Add(4 * time.Minute))
	require.NoError(t, err)
	require.Equal(t, time.Minute, remaining)

	_, err = ticket.Remaining(issued.Add(5 * time.Minute))
	require.ErrorIs(t, err, clienterrors.ErrTicketExpired)
}
