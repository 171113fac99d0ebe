package kafka

import "time"

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingExpired   = "booking_expired"
)

type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"bookingId,omitempty"`
	Token      string    `json:"token,omitempty"`
	FlightID   string    `json:"flightId"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Key is the partition key: the booking id, or the checkout token before a booking exists.
func (e BookingEvent) Key() string {
	if e.BookingID != "" {
		return e.BookingID
	}
	return e.Token
}
