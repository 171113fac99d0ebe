package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Passenger struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age" validate:"gte=1"`
}

// Booking is a confirmed purchase. Route and schedule are copied from the flight at booking time.
type Booking struct {
	ID          string        `json:"id" validate:"required"`
	UserEmail   string        `json:"userEmail" validate:"required,email"`
	FlightID    string        `json:"flightId" validate:"required"`
	From        string        `json:"from"`
	To          string        `json:"to"`
	Airline     string        `json:"airline"`
	Departure   time.Time     `json:"departure"`
	Arrival     time.Time     `json:"arrival"`
	Passengers  []Passenger   `json:"passengers" validate:"min=1,dive"`
	TotalAmount float64       `json:"totalAmount" validate:"gte=0"`
	BookingDate time.Time     `json:"bookingDate" validate:"required"`
	Status      BookingStatus `json:"status" validate:"oneof=pending confirmed cancelled"`
}

type Fare struct {
	Base  float64 `json:"base"`
	Taxes float64 `json:"taxes"`
	Total float64 `json:"total"`
}

// Checkout is a booking attempt waiting for payment confirmation.
type Checkout struct {
	Token      string        `json:"token" validate:"required"`
	UserEmail  string        `json:"userEmail" validate:"required,email"`
	FlightID   string        `json:"flightId" validate:"required"`
	Passengers []Passenger   `json:"passengers" validate:"min=1,dive"`
	Fare       Fare          `json:"fare"`
	Status     BookingStatus `json:"status" validate:"oneof=pending"`
	CreatedAt  time.Time     `json:"createdAt"`
	ExpiresAt  time.Time     `json:"expiresAt" validate:"required"`
}

func (c Checkout) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
