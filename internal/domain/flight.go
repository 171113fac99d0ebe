package domain

import "time"

type AirportTime struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

type Flight struct {
	ID             string    `json:"id" validate:"required"`
	From           string    `json:"from" validate:"required"`
	To             string    `json:"to" validate:"required"`
	Departure      time.Time `json:"departure" validate:"required"`
	Arrival        time.Time `json:"arrival" validate:"required,gtfield=Departure"`
	Airline        string    `json:"airline" validate:"required"`
	Price          float64   `json:"price" validate:"gte=0"`
	SeatsAvailable int       `json:"seatsAvailable" validate:"gte=0"`
	SeatsBooked    int       `json:"seatsBooked" validate:"gte=0,ltefield=SeatsAvailable"`

	DepartureAirport AirportTime `json:"departureAirport"`
	ArrivalAirport   AirportTime `json:"arrivalAirport"`
	// Duration is in minutes.
	Duration     int      `json:"duration,omitempty"`
	Airplane     string   `json:"airplane,omitempty"`
	AirlineLogo  string   `json:"airlineLogo,omitempty"`
	FlightNumber string   `json:"flightNumber,omitempty"`
	TravelClass  string   `json:"travelClass,omitempty"`
	Legroom      string   `json:"legroom,omitempty"`
	Extensions   []string `json:"extensions,omitempty"`
}

func (f Flight) FreeSeats() int {
	return f.SeatsAvailable - f.SeatsBooked
}
