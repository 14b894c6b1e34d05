// Package trips wraps the booking endpoints: lookup by code, detail, cancel,
// and the signed-in user's booking listings.
package trips

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-travel-client/restclient"
)

const (
	basePath        = "/public/booking"
	myBookingsPath  = "/public/booking/my-bookings"
	myHotelsPath    = "/public/booking/my-hotels"
	myCancelledPath = "/public/booking/my-cancelled"
	lookupPath      = "/public/booking/lookup/"
)

// Booking is a confirmed booking record.
type Booking struct {
	ID           int64   `json:"id"`
	BookingCode  string  `json:"bookingCode"`
	Type         string  `json:"type"` // HOTEL, FLIGHT or TOUR
	Status       string  `json:"status"`
	ContactName  string  `json:"contactName"`
	ContactPhone string  `json:"contactPhone"`
	ContactEmail string  `json:"contactEmail"`
	HotelName    string  `json:"hotelName,omitempty"`
	RoomName     string  `json:"roomName,omitempty"`
	CheckInDate  string  `json:"checkInDate,omitempty"`
	CheckOutDate string  `json:"checkOutDate,omitempty"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"totalPrice"`
	CreatedAt    string  `json:"createdAt"`
}

// Service is the bookings domain service.
type Service struct {
	client *restclient.Client
}

// NewService creates a Service.
func NewService(client *restclient.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[trips.NewService] rest client is required")
	}
	return &Service{client: client}, nil
}

// Lookup finds a booking by its public code.
func (s *Service) Lookup(ctx context.Context, bookingCode string) (Booking, error) {
	booking, err := restclient.GetResult[Booking](ctx, s.client, lookupPath+bookingCode, nil)
	if err != nil {
		log.Error().Err(err).Str("booking_code", bookingCode).Msg("booking lookup failed")
		return Booking{}, err
	}
	return booking, nil
}

// Detail fetches a booking by id.
func (s *Service) Detail(ctx context.Context, bookingID int64) (Booking, error) {
	path := basePath + "/" + strconv.FormatInt(bookingID, 10)
	booking, err := restclient.GetResult[Booking](ctx, s.client, path, nil)
	if err != nil {
		log.Error().Err(err).Int64("booking_id", bookingID).Msg("booking detail fetch failed")
		return Booking{}, err
	}
	return booking, nil
}

// Cancel cancels a booking and returns the updated record.
func (s *Service) Cancel(ctx context.Context, bookingID int64) (Booking, error) {
	path := basePath + "/" + strconv.FormatInt(bookingID, 10) + "/cancel"
	booking, err := restclient.PostResult[Booking](ctx, s.client, path, nil)
	if err != nil {
		log.Error().Err(err).Int64("booking_id", bookingID).Msg("booking cancel failed")
		return Booking{}, err
	}
	return booking, nil
}

// MyBookings lists the signed-in user's bookings.
func (s *Service) MyBookings(ctx context.Context) ([]Booking, error) {
	return s.list(ctx, myBookingsPath)
}

// MyHotels lists the signed-in user's hotel bookings.
func (s *Service) MyHotels(ctx context.Context) ([]Booking, error) {
	return s.list(ctx, myHotelsPath)
}

// MyCancelled lists the signed-in user's cancelled bookings.
func (s *Service) MyCancelled(ctx context.Context) ([]Booking, error) {
	return s.list(ctx, myCancelledPath)
}

func (s *Service) list(ctx context.Context, path string) ([]Booking, error) {
	bookings, err := restclient.GetResult[[]Booking](ctx, s.client, path, nil)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("booking listing fetch failed")
		return nil, err
	}
	return bookings, nil
}
