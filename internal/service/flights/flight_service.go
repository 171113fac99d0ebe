package flights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/repository"
)

// DefaultSeatsAvailable is used when a new flight does not state its capacity.
const DefaultSeatsAvailable = 50

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id string, input FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id string) error
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	FlightsVersion(ctx context.Context) (int64, error)
	SetFlights(ctx context.Context, version int64, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

// FlightInput is what an admin submits. Nil seat counts mean "default" on create
// and "unchanged" on update.
type FlightInput struct {
	From           string
	To             string
	Departure      time.Time
	Arrival        time.Time
	Airline        string
	Price          float64
	SeatsAvailable *int
	SeatsBooked    *int

	DepartureAirport domain.AirportTime
	ArrivalAirport   domain.AirportTime
	Duration         int
	Airplane         string
	AirlineLogo      string
	FlightNumber     string
	TravelClass      string
	Legroom          string
	Extensions       []string
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
	log   *slog.Logger
	now   func() time.Time
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache, log *slog.Logger) *FlightService {
	return &FlightService{repo: repo, cache: cache, log: log, now: time.Now}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
		return cached, nil
	}

	// The version is taken before the read so a write landing in between voids the fill.
	version, verErr := s.cache.FlightsVersion(ctx)
	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if verErr != nil {
		s.log.Warn("cache flights", "error", verErr)
		return flights, nil
	}
	if err := s.cache.SetFlights(ctx, version, flights); err != nil {
		s.log.Warn("cache flights", "error", err)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	flight := domain.Flight{SeatsAvailable: DefaultSeatsAvailable}
	input.apply(&flight)
	flight.ID = fmt.Sprintf("%s-%s-%d", flight.From, flight.To, s.now().UnixMilli())

	if err := domain.Validate(flight); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.log.Info("flight created", "flight_id", flight.ID)
	return &flight, nil
}

func (s *FlightService) Update(ctx context.Context, id string, input FlightInput) (*domain.Flight, error) {
	updated, err := s.repo.Update(ctx, id, func(f *domain.Flight) error {
		input.apply(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.log.Info("flight updated", "flight_id", id)
	return updated, nil
}

// Delete is idempotent: an unknown id is not an error.
func (s *FlightService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed {
		s.invalidate(ctx)
		s.log.Info("flight deleted", "flight_id", id)
	}
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("invalidate flights cache", "error", err)
	}
}

func (in FlightInput) apply(f *domain.Flight) {
	f.From = strings.ToUpper(strings.TrimSpace(in.From))
	f.To = strings.ToUpper(strings.TrimSpace(in.To))
	f.Departure = in.Departure
	f.Arrival = in.Arrival
	f.Airline = strings.TrimSpace(in.Airline)
	f.Price = in.Price
	if in.SeatsAvailable != nil {
		f.SeatsAvailable = *in.SeatsAvailable
	}
	if in.SeatsBooked != nil {
		f.SeatsBooked = *in.SeatsBooked
	}

	f.DepartureAirport = in.DepartureAirport
	f.ArrivalAirport = in.ArrivalAirport
	f.Duration = in.Duration
	f.Airplane = in.Airplane
	f.AirlineLogo = in.AirlineLogo
	f.FlightNumber = in.FlightNumber
	f.TravelClass = in.TravelClass
	f.Legroom = in.Legroom
	f.Extensions = in.Extensions
}

var _ FlightUseCase = (*FlightService)(nil)
