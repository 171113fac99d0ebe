package search

import (
	"strings"

	"github.com/Domenick1991/flymate/internal/domain"
)

const DateLayout = "2006-01-02"

// Filter is a resolved search. Zero Date means any day.
type Filter struct {
	From   string
	To     string
	Date   string
	Direct bool
}

func (f Filter) Match(flight domain.Flight) bool {
	if !strings.EqualFold(flight.From, f.From) || !strings.EqualFold(flight.To, f.To) {
		return false
	}
	if f.Direct && flight.FreeSeats() <= 0 {
		return false
	}
	if f.Date != "" && flight.Departure.UTC().Format(DateLayout) != f.Date {
		return false
	}
	return true
}

// Apply keeps the order of flights.
func (f Filter) Apply(flights []domain.Flight) []domain.Flight {
	out := make([]domain.Flight, 0)
	for _, flight := range flights {
		if f.Match(flight) {
			out = append(out, flight)
		}
	}
	return out
}
