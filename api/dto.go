package api

import (
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/service/flights"
)

type signupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"omitempty,eqfield=Password"`
	Role            string `json:"role" binding:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User           domain.PublicUser `json:"user"`
	ExpiresAt      time.Time         `json:"expiresAt"`
	Token          string            `json:"token,omitempty"`
	TokenExpiresAt *time.Time        `json:"tokenExpiresAt,omitempty"`
	Redirect       string            `json:"redirect"`
}

type sessionResponse struct {
	User      domain.PublicUser `json:"user"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

type profileResponse struct {
	User     domain.PublicUser `json:"user"`
	Bookings int               `json:"bookings"`
}

type navigationResponse struct {
	Path     string   `json:"path"`
	Allowed  bool     `json:"allowed"`
	Redirect string   `json:"redirect,omitempty"`
	Error    string   `json:"error,omitempty"`
	Routes   []string `json:"routes"`
}

type searchRequest struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Date   string `json:"date"`
	Direct bool   `json:"direct"`
}

type airportTimeDTO struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

type flightRequest struct {
	From           string    `json:"from" binding:"required"`
	To             string    `json:"to" binding:"required"`
	Departure      time.Time `json:"departure" binding:"required"`
	Arrival        time.Time `json:"arrival" binding:"required"`
	Airline        string    `json:"airline" binding:"required"`
	Price          float64   `json:"price" binding:"gte=0"`
	SeatsAvailable *int      `json:"seatsAvailable" binding:"omitempty,gte=0"`
	SeatsBooked    *int      `json:"seatsBooked" binding:"omitempty,gte=0"`

	DepartureAirport airportTimeDTO `json:"departureAirport"`
	ArrivalAirport   airportTimeDTO `json:"arrivalAirport"`
	Duration         int            `json:"duration"`
	Airplane         string         `json:"airplane"`
	AirlineLogo      string         `json:"airlineLogo"`
	FlightNumber     string         `json:"flightNumber"`
	TravelClass      string         `json:"travelClass"`
	Legroom          string         `json:"legroom"`
	Extensions       []string       `json:"extensions"`
}

func (r flightRequest) input() flights.FlightInput {
	return flights.FlightInput{
		From:             r.From,
		To:               r.To,
		Departure:        r.Departure,
		Arrival:          r.Arrival,
		Airline:          r.Airline,
		Price:            r.Price,
		SeatsAvailable:   r.SeatsAvailable,
		SeatsBooked:      r.SeatsBooked,
		DepartureAirport: domain.AirportTime(r.DepartureAirport),
		ArrivalAirport:   domain.AirportTime(r.ArrivalAirport),
		Duration:         r.Duration,
		Airplane:         r.Airplane,
		AirlineLogo:      r.AirlineLogo,
		FlightNumber:     r.FlightNumber,
		TravelClass:      r.TravelClass,
		Legroom:          r.Legroom,
		Extensions:       r.Extensions,
	}
}

type passengerDTO struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Passenger rules are enforced by the booking service so that messages are per passenger.
type startBookingRequest struct {
	FlightID   string         `json:"flightId" binding:"required"`
	Passengers []passengerDTO `json:"passengers"`
}

func (r startBookingRequest) passengers() []domain.Passenger {
	out := make([]domain.Passenger, 0, len(r.Passengers))
	for _, p := range r.Passengers {
		out = append(out, domain.Passenger(p))
	}
	return out
}
