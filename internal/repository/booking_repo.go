package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/storage"
)

// BuildBookingFunc produces the booking record from the checkout and the flight
// as it is before seats are reserved.
type BuildBookingFunc func(checkout domain.Checkout, flight domain.Flight) (domain.Booking, error)

type BookingRepository interface {
	List(ctx context.Context) ([]domain.Booking, error)
	ListByUser(ctx context.Context, email string) ([]domain.Booking, error)
	Book(ctx context.Context, token string, now time.Time, build BuildBookingFunc) (*domain.Booking, error)
	Cancel(ctx context.Context, id string, authorize func(domain.Booking) error) (*domain.Booking, error)
}

// DocBookingRepository keeps bookings, the seat counters on flights and the open checkouts consistent.
// Keys are always locked in the order flights, bookings, checkouts.
type DocBookingRepository struct {
	bookings  documents[domain.Booking]
	flights   documents[domain.Flight]
	checkouts documents[domain.Checkout]
	locker    storage.Locker
}

func NewBookingRepository(store storage.Store, locker storage.Locker) BookingRepository {
	return &DocBookingRepository{
		bookings:  documents[domain.Booking]{store: store, key: storage.KeyBookings},
		flights:   documents[domain.Flight]{store: store, key: storage.KeyFlights},
		checkouts: documents[domain.Checkout]{store: store, key: storage.KeyCheckouts},
		locker:    locker,
	}
}

func (r *DocBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	bookings, _, err := r.bookings.load(ctx)
	return bookings, err
}

func (r *DocBookingRepository) ListByUser(ctx context.Context, email string) ([]domain.Booking, error) {
	bookings, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0)
	for _, b := range bookings {
		if b.UserEmail == email {
			out = append(out, b)
		}
	}
	return out, nil
}

// Book consumes the checkout identified by token: it reserves one seat per passenger,
// appends the booking and drops the checkout in one critical section.
// A checkout that is already gone yields ErrNotFound, an expired one ErrCheckoutExpired,
// and ErrNoSeatsAvailable is returned when seatsBooked would exceed seatsAvailable.
func (r *DocBookingRepository) Book(ctx context.Context, token string, now time.Time, build BuildBookingFunc) (*domain.Booking, error) {
	unlock, err := storage.LockAll(ctx, r.locker, storage.KeyFlights, storage.KeyBookings, storage.KeyCheckouts)
	if err != nil {
		return nil, fmt.Errorf("lock bookings: %w", err)
	}
	defer unlock()

	checkouts, _, err := r.checkouts.load(ctx)
	if err != nil {
		return nil, err
	}
	ci := indexCheckout(checkouts, token)
	if ci < 0 {
		return nil, domain.ErrNotFound
	}
	checkout := checkouts[ci]
	if checkout.Expired(now) {
		return nil, domain.ErrCheckoutExpired
	}

	flights, _, err := r.flights.load(ctx)
	if err != nil {
		return nil, err
	}
	fi := indexFlight(flights, checkout.FlightID)
	if fi < 0 {
		return nil, domain.ErrNotFound
	}

	booking, err := build(checkout, flights[fi])
	if err != nil {
		return nil, err
	}
	seats := len(booking.Passengers)
	if flights[fi].FreeSeats() < seats {
		return nil, domain.ErrNoSeatsAvailable
	}

	bookings, _, err := r.bookings.load(ctx)
	if err != nil {
		return nil, err
	}

	before := flights[fi]
	flights[fi].SeatsBooked += seats
	if err := r.flights.save(ctx, flights); err != nil {
		return nil, err
	}
	restoreFlight := func(cause error) error {
		flights[fi] = before
		if rbErr := r.flights.save(ctx, flights); rbErr != nil {
			return fmt.Errorf("%w (seat rollback failed: %v)", cause, rbErr)
		}
		return cause
	}

	if err := r.bookings.save(ctx, append(bookings, booking)); err != nil {
		return nil, restoreFlight(err)
	}

	remaining := append(append([]domain.Checkout{}, checkouts[:ci]...), checkouts[ci+1:]...)
	if err := r.checkouts.save(ctx, remaining); err != nil {
		if rbErr := r.bookings.save(ctx, bookings); rbErr != nil {
			return nil, fmt.Errorf("%w (booking rollback failed: %v)", err, rbErr)
		}
		return nil, restoreFlight(err)
	}
	return &booking, nil
}

// Cancel removes the booking and returns its seats to the flight, if the flight still exists.
func (r *DocBookingRepository) Cancel(ctx context.Context, id string, authorize func(domain.Booking) error) (*domain.Booking, error) {
	unlock, err := storage.LockAll(ctx, r.locker, storage.KeyFlights, storage.KeyBookings)
	if err != nil {
		return nil, fmt.Errorf("lock bookings: %w", err)
	}
	defer unlock()

	bookings, _, err := r.bookings.load(ctx)
	if err != nil {
		return nil, err
	}
	bi := indexBooking(bookings, id)
	if bi < 0 {
		return nil, domain.ErrNotFound
	}
	cancelled := bookings[bi]
	if authorize != nil {
		if err := authorize(cancelled); err != nil {
			return nil, err
		}
	}

	flights, _, err := r.flights.load(ctx)
	if err != nil {
		return nil, err
	}

	remaining := append(append([]domain.Booking{}, bookings[:bi]...), bookings[bi+1:]...)
	if err := r.bookings.save(ctx, remaining); err != nil {
		return nil, err
	}

	if fi := indexFlight(flights, cancelled.FlightID); fi >= 0 {
		flights[fi].SeatsBooked = max(0, flights[fi].SeatsBooked-len(cancelled.Passengers))
		if err := r.flights.save(ctx, flights); err != nil {
			if rbErr := r.bookings.save(ctx, bookings); rbErr != nil {
				return nil, fmt.Errorf("%w (booking rollback failed: %v)", err, rbErr)
			}
			return nil, err
		}
	}

	cancelled.Status = domain.BookingStatusCancelled
	return &cancelled, nil
}

func indexBooking(bookings []domain.Booking, id string) int {
	for i := range bookings {
		if bookings[i].ID == id {
			return i
		}
	}
	return -1
}

func indexCheckout(checkouts []domain.Checkout, token string) int {
	for i := range checkouts {
		if checkouts[i].Token == token {
			return i
		}
	}
	return -1
}

var _ BookingRepository = (*DocBookingRepository)(nil)
