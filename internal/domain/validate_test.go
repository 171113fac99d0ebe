package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFlight() Flight {
	dep := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	return Flight{
		ID:             "DEL-BOM-1",
		From:           "DEL",
		To:             "BOM",
		Departure:      dep,
		Arrival:        dep.Add(2 * time.Hour),
		Airline:        "IndiGo",
		Price:          4500,
		SeatsAvailable: 50,
	}
}

func TestValidate_Flight(t *testing.T) {
	assert.NoError(t, Validate(validFlight()))

	overbooked := validFlight()
	overbooked.SeatsBooked = 51
	err := Validate(overbooked)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "seatsBooked")

	backwards := validFlight()
	backwards.Arrival = backwards.Departure.Add(-time.Hour)
	err = Validate(backwards)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "arrival")

	missing := Flight{Price: -1}
	err = Validate(missing)
	require.True(t, errors.As(err, &verr))
	for _, f := range []string{"id", "from", "to", "departure", "airline", "price"} {
		assert.Contains(t, verr.Fields, f)
	}
}

func TestValidate_BookingPassengers(t *testing.T) {
	b := Booking{
		ID:          "b1",
		UserEmail:   "bob@x.com",
		FlightID:    "DEL-BOM-1",
		Passengers:  []Passenger{{Name: "Bob", Age: 0}},
		BookingDate: time.Now(),
		Status:      BookingStatusConfirmed,
	}

	err := Validate(b)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "passengers[0].age")

	b.Passengers = nil
	err = Validate(b)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "passengers")

	b.Passengers = []Passenger{{Name: "Bob", Age: 30}}
	assert.NoError(t, Validate(b))
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("name", "is required")
	verr.Add("age", "must be at least 1")

	err := verr.OrNil()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed: age: must be at least 1; name: is required", err.Error())
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("pilot").Valid())
}
