package errors

import (
	"errors"
)

// Common error types for the travel client
var (
	// Booking errors
	ErrNoBooking     = errors.New("no booking selection stored")
	ErrInvalidDates  = errors.New("check-out must be after check-in")
	ErrInvalidGuests = errors.New("guest count must be at least one")
	ErrTicketExpired = errors.New("payment QR ticket expired")
)
