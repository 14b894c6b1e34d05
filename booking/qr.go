package booking

import (
	"fmt"
	"strconv"
	"time"

	clienterrors "github.com/jrsteele09/go-travel-client/internal/errors"
)

// qrTTL matches the payment screen's five-minute countdown.
const qrTTL = 5 * time.Minute

// QRTicket is a mock payment QR: the payload string the provider would
// encode plus the countdown window the payment screen displays.
type QRTicket struct {
	Payload   string
	Amount    float64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewQRTicket issues a mock payment QR for the selection. The payload format
// mirrors the provider mock: "MOMO | <hotel>| <total>| <unix-ms> ".
func NewQRTicket(selection Selection, now time.Time) QRTicket {
	amount := strconv.FormatFloat(selection.TotalPrice, 'f', -1, 64)
	payload := fmt.Sprintf("MOMO | %s| %s| %d ", selection.Hotel.Name, amount, now.UnixMilli())
	return QRTicket{
		Payload:   payload,
		Amount:    selection.TotalPrice,
		IssuedAt:  now,
		ExpiresAt: now.Add(qrTTL),
	}
}

// Remaining returns the countdown left at now, or ErrTicketExpired once the
// window has closed.
func (t QRTicket) Remaining(now time.Time) (time.Duration, error) {
	if !now.Before(t.ExpiresAt) {
		return 0, clienterrors.ErrTicketExpired
	}
	return t.ExpiresAt.Sub(now), nil
}
