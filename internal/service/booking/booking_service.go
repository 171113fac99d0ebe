package booking

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/kafka"
	"github.com/Domenick1991/flymate/internal/repository"
	"github.com/google/uuid"
)

const (
	baseShare = 0.9
	taxShare  = 0.1
)

const (
	StatusAll       = "all"
	StatusConfirmed = string(domain.BookingStatusConfirmed)
	StatusPending   = string(domain.BookingStatusPending)
	StatusCancelled = string(domain.BookingStatusCancelled)
)

type BookingUseCase interface {
	Start(ctx context.Context, email string, input StartInput) (*domain.Checkout, error)
	Confirm(ctx context.Context, email, token string) (*domain.Booking, error)
	Abandon(ctx context.Context, email, token string) error
	Cancel(ctx context.Context, actor domain.Session, id string) (*domain.Booking, error)
	ListMine(ctx context.Context, email string) ([]domain.Booking, error)
	List(ctx context.Context, filter ListFilter) (*BookingList, error)
	ExpireCheckouts(ctx context.Context, now time.Time) ([]domain.Checkout, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type StartInput struct {
	FlightID   string
	Passengers []domain.Passenger
}

type ListFilter struct {
	Query  string
	Status string
}

type BookingList struct {
	Bookings  []domain.Booking `json:"bookings"`
	Total     int              `json:"total"`
	Confirmed int              `json:"confirmed"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	checkouts          repository.CheckoutRepository
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	paymentDelay       time.Duration
	cancelDelay        time.Duration
	log                *slog.Logger
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithDelays sets the simulated payment and cancellation latency.
func WithDelays(payment, cancel time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.paymentDelay = payment
		s.cancelDelay = cancel
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	checkouts repository.CheckoutRepository,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	log *slog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		checkouts:    checkouts,
		flights:      flights,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Start opens a checkout for the flight. Seats are only taken on Confirm.
func (s *BookingService) Start(ctx context.Context, email string, input StartInput) (*domain.Checkout, error) {
	passengers, err := normalizePassengers(input.Passengers)
	if err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if flight.FreeSeats() < len(passengers) {
		return nil, domain.ErrNoSeatsAvailable
	}

	now := s.now().UTC()
	checkout := domain.Checkout{
		Token:      uuid.NewString(),
		UserEmail:  email,
		FlightID:   flight.ID,
		Passengers: passengers,
		Fare:       FareFor(flight.Price, len(passengers)),
		Status:     domain.BookingStatusPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.holdTTL),
	}
	if err := s.checkouts.Create(ctx, checkout); err != nil {
		return nil, err
	}

	s.log.Info("checkout started", "token", checkout.Token, "flight_id", flight.ID, "email", email)
	return &checkout, nil
}

// Confirm takes the mock payment and turns the checkout into a booking.
func (s *BookingService) Confirm(ctx context.Context, email, token string) (*domain.Booking, error) {
	checkout, err := s.ownCheckout(ctx, email, token)
	if err != nil {
		return nil, err
	}
	if checkout.Expired(s.now()) {
		return nil, domain.ErrCheckoutExpired
	}

	if err := wait(ctx, s.paymentDelay); err != nil {
		return nil, err
	}

	// Book re-reads and consumes the checkout under the booking locks.
	booking, err := s.bookings.Book(ctx, token, s.now(), func(co domain.Checkout, flight domain.Flight) (domain.Booking, error) {
		if co.UserEmail != email {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{
			ID:          uuid.NewString(),
			UserEmail:   co.UserEmail,
			FlightID:    flight.ID,
			From:        flight.From,
			To:          flight.To,
			Airline:     flight.Airline,
			Departure:   flight.Departure,
			Arrival:     flight.Arrival,
			Passengers:  co.Passengers,
			TotalAmount: co.Fare.Total,
			BookingDate: s.now().UTC(),
			Status:      domain.BookingStatusConfirmed,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, kafka.BookingEvent{
		Type:      kafka.EventBookingConfirmed,
		BookingID: booking.ID,
		Token:     token,
		FlightID:  booking.FlightID,
		Email:     booking.UserEmail,
		Status:    string(booking.Status),
		Amount:    booking.TotalAmount,
	})

	s.log.Info("booking confirmed", "booking_id", booking.ID, "flight_id", booking.FlightID)
	return booking, nil
}

func (s *BookingService) Abandon(ctx context.Context, email, token string) error {
	if _, err := s.ownCheckout(ctx, email, token); err != nil {
		return err
	}
	_, err := s.checkouts.Delete(ctx, token)
	return err
}

// Cancel removes a booking and gives its seats back. Users may only cancel their own bookings.
func (s *BookingService) Cancel(ctx context.Context, actor domain.Session, id string) (*domain.Booking, error) {
	if err := wait(ctx, s.cancelDelay); err != nil {
		return nil, err
	}

	cancelled, err := s.bookings.Cancel(ctx, id, func(b domain.Booking) error {
		if actor.Role != domain.RoleAdmin && b.UserEmail != actor.Email {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, kafka.BookingEvent{
		Type:      kafka.EventBookingCancelled,
		BookingID: cancelled.ID,
		FlightID:  cancelled.FlightID,
		Email:     cancelled.UserEmail,
		Status:    string(cancelled.Status),
		Amount:    cancelled.TotalAmount,
	})

	s.log.Info("booking cancelled", "booking_id", cancelled.ID, "by", actor.Email)
	return cancelled, nil
}

func (s *BookingService) ListMine(ctx context.Context, email string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, email)
}

func (s *BookingService) List(ctx context.Context, filter ListFilter) (*BookingList, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status == "" {
		status = StatusAll
	}

	var rows []domain.Booking
	switch status {
	case StatusAll, StatusConfirmed, StatusPending, StatusCancelled:
	default:
		return nil, domain.NewValidationError("status", "must be one of all confirmed pending cancelled")
	}

	if status == StatusAll || status == StatusConfirmed || status == StatusCancelled {
		bookings, err := s.bookings.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, b := range bookings {
			if status == StatusAll || string(b.Status) == status {
				rows = append(rows, b)
			}
		}
	}
	if status == StatusAll || status == StatusPending {
		pending, err := s.pendingBookings(ctx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, pending...)
	}

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	out := &BookingList{Bookings: make([]domain.Booking, 0, len(rows))}
	for _, b := range rows {
		if q != "" && !matches(b, q) {
			continue
		}
		out.Bookings = append(out.Bookings, b)
		if b.Status == domain.BookingStatusConfirmed {
			out.Confirmed++
		}
	}
	out.Total = len(out.Bookings)
	return out, nil
}

// ExpireCheckouts drops checkouts whose hold ran out.
func (s *BookingService) ExpireCheckouts(ctx context.Context, now time.Time) ([]domain.Checkout, error) {
	expired, err := s.checkouts.DeleteExpired(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, c := range expired {
		s.publish(ctx, kafka.BookingEvent{
			Type:     kafka.EventBookingExpired,
			Token:    c.Token,
			FlightID: c.FlightID,
			Email:    c.UserEmail,
			Status:   string(c.Status),
			Amount:   c.Fare.Total,
		})
	}
	if len(expired) > 0 {
		s.log.Info("checkouts expired", "count", len(expired))
	}
	return expired, nil
}

// FareFor splits the ticket price into base fare and taxes.
func FareFor(price float64, passengers int) domain.Fare {
	total := price * float64(passengers)
	return domain.Fare{
		Base:  round2(total * baseShare),
		Taxes: round2(total * taxShare),
		Total: round2(total),
	}
}

func (s *BookingService) ownCheckout(ctx context.Context, email, token string) (*domain.Checkout, error) {
	checkout, err := s.checkouts.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if checkout.UserEmail != email {
		return nil, domain.ErrNotFound
	}
	return checkout, nil
}

func (s *BookingService) pendingBookings(ctx context.Context) ([]domain.Booking, error) {
	checkouts, err := s.checkouts.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(checkouts) == 0 {
		return nil, nil
	}
	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Flight, len(flights))
	for _, f := range flights {
		byID[f.ID] = f
	}

	out := make([]domain.Booking, 0, len(checkouts))
	for _, c := range checkouts {
		f := byID[c.FlightID]
		out = append(out, domain.Booking{
			ID:          c.Token,
			UserEmail:   c.UserEmail,
			FlightID:    c.FlightID,
			From:        f.From,
			To:          f.To,
			Airline:     f.Airline,
			Departure:   f.Departure,
			Arrival:     f.Arrival,
			Passengers:  c.Passengers,
			TotalAmount: c.Fare.Total,
			BookingDate: c.CreatedAt,
			Status:      domain.BookingStatusPending,
		})
	}
	return out, nil
}

func (s *BookingService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("invalidate flights cache", "error", err)
	}
}

// publish never fails the caller; delivery problems are logged.
func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event.OccurredAt = s.now().UTC()

	if err := s.producer.Publish(ctx, s.bookingTopic, event.Key(), event); err != nil {
		s.log.Warn("publish booking event", "type", event.Type, "topic", s.bookingTopic, "error", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.Key(), event); err != nil {
			s.log.Warn("publish booking event", "type", event.Type, "topic", s.notificationsTopic, "error", err)
		}
	}
}

func normalizePassengers(in []domain.Passenger) ([]domain.Passenger, error) {
	verr := &domain.ValidationError{}
	if len(in) == 0 {
		verr.Add("passengers", "at least one passenger is required")
	}
	out := make([]domain.Passenger, 0, len(in))
	for i, p := range in {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			verr.Add(fmt.Sprintf("passengers[%d].name", i), "is required")
		}
		if p.Age < 1 {
			verr.Add(fmt.Sprintf("passengers[%d].age", i), "must be at least 1")
		}
		out = append(out, p)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(b domain.Booking, q string) bool {
	for _, field := range []string{b.UserEmail, b.From, b.To, b.Airline} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ BookingUseCase = (*BookingService)(nil)
