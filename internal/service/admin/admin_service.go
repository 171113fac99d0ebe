package admin

import (
	"context"
	"sort"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/repository"
)

const recentBookings = 5

type AdminUseCase interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type Dashboard struct {
	TotalBookings  int              `json:"totalBookings"`
	TotalFlights   int              `json:"totalFlights"`
	TotalUsers     int              `json:"totalUsers"`
	Revenue        float64          `json:"revenue"`
	SeatsBooked    int              `json:"seatsBooked"`
	SeatsAvailable int              `json:"seatsAvailable"`
	Recent         []domain.Booking `json:"recentBookings"`
}

type AdminService struct {
	users    repository.UserRepository
	flights  repository.FlightRepository
	bookings repository.BookingRepository
}

func NewAdminService(users repository.UserRepository, flights repository.FlightRepository, bookings repository.BookingRepository) *AdminService {
	return &AdminService{users: users, flights: flights, bookings: bookings}
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalBookings: len(bookings),
		TotalFlights:  len(flights),
		TotalUsers:    len(users),
	}
	for _, f := range flights {
		d.SeatsBooked += f.SeatsBooked
		d.SeatsAvailable += f.SeatsAvailable
	}
	for _, b := range bookings {
		d.Revenue += b.TotalAmount
	}

	recent := append([]domain.Booking(nil), bookings...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].BookingDate.After(recent[j].BookingDate)
	})
	if len(recent) > recentBookings {
		recent = recent[:recentBookings]
	}
	d.Recent = recent
	if d.Recent == nil {
		d.Recent = []domain.Booking{}
	}
	return d, nil
}

var _ AdminUseCase = (*AdminService)(nil)
