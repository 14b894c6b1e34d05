// Package booking holds the in-flight booking selection: the hotel room a
// user picked on the detail screen, waiting for the payment step. The
// selection lives in a single local storage slot until payment consumes it.
package booking

import (
	"time"

	"github.com/pkg/errors"

	clienterrors "github.com/jrsteele09/go-travel-client/internal/errors"
)

// HotelSummary is the slice of the hotel record the payment step needs.
type HotelSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Thumbnail  string `json:"thumbnail"`
	Address    string `json:"address"`
	StarRating int    `json:"starRating"`
}

// RoomSummary is the chosen room.
type RoomSummary struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Capacity int     `json:"capacity"`
	Area     float64 `json:"area"`
}

// Selection is the transient record describing a chosen hotel room pending
// payment. TotalPrice is computed at write time (room price times nights)
// and not re-validated at read time.
type Selection struct {
	Hotel        HotelSummary `json:"hotel"`
	Room         RoomSummary  `json:"room"`
	CheckInDate  string       `json:"checkInDate"`  // ISO-8601 date
	CheckOutDate string       `json:"checkOutDate"` // ISO-8601 date
	Guests       int          `json:"guests"`
	Nights       int          `json:"nights"`
	TotalPrice   float64      `json:"totalPrice"`
}

// Nights computes the number of nights between two ISO-8601 dates.
func Nights(checkIn, checkOut string) (int, error) {
	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		return 0, errors.Wrap(err, "[booking.Nights] check-in date")
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		return 0, errors.Wrap(err, "[booking.Nights] check-out date")
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights <= 0 {
		return 0, clienterrors.ErrInvalidDates
	}
	return nights, nil
}

// NewSelection builds a Selection, computing nights from the dates and the
// total price from the room's nightly rate.
func NewSelection(hotel HotelSummary, room RoomSummary, checkIn, checkOut string, guests int) (Selection, error) {
	if guests < 1 {
		return Selection{}, clienterrors.ErrInvalidGuests
	}
	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		Hotel:        hotel,
		Room:         room,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Guests:       guests,
		Nights:       nights,
		TotalPrice:   room.Price * float64(nights),
	}, nil
}
