package admin

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight domain.Flight) error {
	return m.Called(ctx, flight).Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, id string, fn func(*domain.Flight) error) (*domain.Flight, error) {
	args := m.Called(ctx, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, email string) ([]domain.Booking, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Book(ctx context.Context, token string, now time.Time, build repository.BuildBookingFunc) (*domain.Booking, error) {
	panic("not used")
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id string, authorize func(domain.Booking) error) (*domain.Booking, error) {
	panic("not used")
}

func TestAdminService_Dashboard(t *testing.T) {
	ctx := context.Background()
	users := &MockUserRepository{}
	flights := &MockFlightRepository{}
	bookings := &MockBookingRepository{}
	service := NewAdminService(users, flights, bookings)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var all []domain.Booking
	for i := 0; i < 7; i++ {
		all = append(all, domain.Booking{
			ID:          fmt.Sprintf("b-%d", i),
			TotalAmount: 100,
			BookingDate: base.Add(time.Duration(i) * time.Hour),
		})
	}

	users.On("List", ctx).Return([]domain.User{{Email: "a@x.com"}, {Email: "b@x.com"}}, nil).Once()
	flights.On("List", ctx).Return([]domain.Flight{
		{ID: "f1", SeatsAvailable: 50, SeatsBooked: 5},
		{ID: "f2", SeatsAvailable: 100, SeatsBooked: 2},
	}, nil).Once()
	bookings.On("List", ctx).Return(all, nil).Once()

	d, err := service.Dashboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, 7, d.TotalBookings)
	assert.Equal(t, 2, d.TotalFlights)
	assert.Equal(t, 2, d.TotalUsers)
	assert.Equal(t, 700.0, d.Revenue)
	assert.Equal(t, 7, d.SeatsBooked)
	assert.Equal(t, 150, d.SeatsAvailable)
	require.Len(t, d.Recent, 5)
	assert.Equal(t, "b-6", d.Recent[0].ID)
	assert.Equal(t, "b-2", d.Recent[4].ID)
	assert.Equal(t, "b-0", all[0].ID, "input order is untouched")
}

func TestAdminService_DashboardEmpty(t *testing.T) {
	ctx := context.Background()
	users := &MockUserRepository{}
	flights := &MockFlightRepository{}
	bookings := &MockBookingRepository{}

	users.On("List", ctx).Return([]domain.User{}, nil)
	flights.On("List", ctx).Return([]domain.Flight{}, nil)
	bookings.On("List", ctx).Return([]domain.Booking{}, nil)

	d, err := NewAdminService(users, flights, bookings).Dashboard(ctx)
	require.NoError(t, err)
	assert.NotNil(t, d.Recent)
	assert.Zero(t, d.Revenue)
}

func TestAdminService_DashboardError(t *testing.T) {
	ctx := context.Background()
	users := &MockUserRepository{}
	users.On("List", ctx).Return(nil, errors.New("store down")).Once()

	_, err := NewAdminService(users, &MockFlightRepository{}, &MockBookingRepository{}).Dashboard(ctx)
	assert.Error(t, err)
}
