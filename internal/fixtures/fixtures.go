// Package fixtures loads the static reference data: the airport directory and the mock flight seed.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Domenick1991/flymate/internal/domain"
)

//go:embed data/airports.json data/flights.json
var embedded embed.FS

const (
	airportsFile = "data/airports.json"
	flightsFile  = "data/flights.json"
)

// LoadAirports reads the airport directory from path, or the embedded copy when path is empty.
func LoadAirports(path string) ([]domain.Airport, error) {
	var airports []domain.Airport
	if err := decode(path, airportsFile, &airports); err != nil {
		return nil, err
	}
	for i, a := range airports {
		if a.IATA == "" {
			return nil, fmt.Errorf("airport %d (%s): missing iata code", i, a.City)
		}
	}
	return airports, nil
}

// LoadFlights reads the flight seed from path, or the embedded copy when path is empty.
func LoadFlights(path string) ([]domain.Flight, error) {
	var flights []domain.Flight
	if err := decode(path, flightsFile, &flights); err != nil {
		return nil, err
	}
	for i := range flights {
		if err := domain.Validate(flights[i]); err != nil {
			return nil, fmt.Errorf("flight fixture %d: %w", i, err)
		}
	}
	return flights, nil
}

// FlightSeed defers LoadFlights until the flight store is first read.
func FlightSeed(path string) func() ([]domain.Flight, error) {
	return func() ([]domain.Flight, error) {
		return LoadFlights(path)
	}
}

func decode(path, fallback string, v any) error {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = embedded.ReadFile(fallback)
		path = fallback
	}
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return nil
}
