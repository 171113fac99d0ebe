package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/storage"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Create(ctx context.Context, flight domain.Flight) error
	Update(ctx context.Context, id string, fn func(*domain.Flight) error) (*domain.Flight, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SeedFunc supplies the initial flight list when none is persisted yet.
type SeedFunc func() ([]domain.Flight, error)

type DocFlightRepository struct {
	flights documents[domain.Flight]
	locker  storage.Locker
	seed    SeedFunc
}

func NewFlightRepository(store storage.Store, locker storage.Locker, seed SeedFunc) FlightRepository {
	return &DocFlightRepository{
		flights: documents[domain.Flight]{store: store, key: storage.KeyFlights},
		locker:  locker,
		seed:    seed,
	}
}

func (r *DocFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	flights, found, err := r.flights.load(ctx)
	if err != nil {
		return nil, err
	}
	if found || r.seed == nil {
		return flights, nil
	}
	return r.seedOnce(ctx)
}

func (r *DocFlightRepository) seedOnce(ctx context.Context) ([]domain.Flight, error) {
	unlock, err := r.locker.Lock(ctx, storage.KeyFlights)
	if err != nil {
		return nil, fmt.Errorf("lock flights: %w", err)
	}
	defer unlock()

	flights, found, err := r.flights.load(ctx)
	if err != nil || found {
		return flights, err
	}

	seeded, err := r.seed()
	if err != nil {
		return nil, fmt.Errorf("seed flights: %w", err)
	}
	if err := r.flights.save(ctx, seeded); err != nil {
		return nil, fmt.Errorf("seed flights: %w", err)
	}
	return seeded, nil
}

func (r *DocFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	flights, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexFlight(flights, id); i >= 0 {
		return &flights[i], nil
	}
	return nil, domain.ErrNotFound
}

func (r *DocFlightRepository) Create(ctx context.Context, flight domain.Flight) error {
	if _, err := r.List(ctx); err != nil {
		return err
	}
	return r.flights.update(ctx, r.locker, func(flights []domain.Flight) ([]domain.Flight, error) {
		if indexFlight(flights, flight.ID) >= 0 {
			return nil, domain.NewValidationError("id", "already exists")
		}
		return append(flights, flight), nil
	})
}

// Update applies fn to the stored flight under the flights lock and persists the result.
func (r *DocFlightRepository) Update(ctx context.Context, id string, fn func(*domain.Flight) error) (*domain.Flight, error) {
	if _, err := r.List(ctx); err != nil {
		return nil, err
	}

	var updated domain.Flight
	err := r.flights.update(ctx, r.locker, func(flights []domain.Flight) ([]domain.Flight, error) {
		i := indexFlight(flights, id)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		f := flights[i]
		if err := fn(&f); err != nil {
			return nil, err
		}
		f.ID = id
		if err := domain.Validate(f); err != nil {
			return nil, err
		}
		flights[i] = f
		updated = f
		return flights, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the flight if present. Unknown ids leave the store untouched.
func (r *DocFlightRepository) Delete(ctx context.Context, id string) (bool, error) {
	flights, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	if indexFlight(flights, id) < 0 {
		return false, nil
	}

	removed := false
	err = r.flights.update(ctx, r.locker, func(flights []domain.Flight) ([]domain.Flight, error) {
		i := indexFlight(flights, id)
		if i < 0 {
			return flights, nil
		}
		removed = true
		return append(flights[:i], flights[i+1:]...), nil
	})
	return removed, err
}

func indexFlight(flights []domain.Flight, id string) int {
	for i := range flights {
		if flights[i].ID == id {
			return i
		}
	}
	return -1
}

var _ FlightRepository = (*DocFlightRepository)(nil)
