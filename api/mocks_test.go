package api

import (
	"context"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/service/admin"
	"github.com/Domenick1991/flymate/internal/service/auth"
	"github.com/Domenick1991/flymate/internal/service/booking"
	"github.com/Domenick1991/flymate/internal/service/flights"
	"github.com/Domenick1991/flymate/internal/service/search"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Update(ctx context.Context, id string, input flights.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockSearchUseCase struct {
	mock.Mock
}

func (m *MockSearchUseCase) Suggest(query string, limit int) []search.Suggestion {
	return m.Called(query, limit).Get(0).([]search.Suggestion)
}

func (m *MockSearchUseCase) Search(ctx context.Context, email string, criteria search.Criteria) ([]domain.Flight, error) {
	args := m.Called(ctx, email, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Start(ctx context.Context, email string, input booking.StartInput) (*domain.Checkout, error) {
	args := m.Called(ctx, email, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}

func (m *MockBookingUseCase) Confirm(ctx context.Context, email, token string) (*domain.Booking, error) {
	args := m.Called(ctx, email, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Abandon(ctx context.Context, email, token string) error {
	return m.Called(ctx, email, token).Error(0)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, actor domain.Session, id string) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListMine(ctx context.Context, email string) ([]domain.Booking, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) List(ctx context.Context, filter booking.ListFilter) (*booking.BookingList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingList), args.Error(1)
}

func (m *MockBookingUseCase) ExpireCheckouts(ctx context.Context, now time.Time) ([]domain.Checkout, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Checkout), args.Error(1)
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, input auth.RegisterInput) (*domain.PublicUser, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicUser), args.Error(1)
}

func (m *MockAuthUseCase) Authenticate(ctx context.Context, email, password string) (*domain.PublicUser, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicUser), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockAuthUseCase) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PublicUser), args.Error(1)
}

type MockAdminUseCase struct {
	mock.Mock
}

func (m *MockAdminUseCase) Dashboard(ctx context.Context) (*admin.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.Dashboard), args.Error(1)
}
