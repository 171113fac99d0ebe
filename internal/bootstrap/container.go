package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Domenick1991/flymate/api"
	"github.com/Domenick1991/flymate/config"
	"github.com/Domenick1991/flymate/internal/cache"
	"github.com/Domenick1991/flymate/internal/fixtures"
	"github.com/Domenick1991/flymate/internal/guard"
	"github.com/Domenick1991/flymate/internal/kafka"
	"github.com/Domenick1991/flymate/internal/repository"
	"github.com/Domenick1991/flymate/internal/service/admin"
	"github.com/Domenick1991/flymate/internal/service/auth"
	"github.com/Domenick1991/flymate/internal/service/booking"
	"github.com/Domenick1991/flymate/internal/service/flights"
	"github.com/Domenick1991/flymate/internal/service/search"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/Domenick1991/flymate/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Container holds the services both binaries are built from.
type Container struct {
	Sessions session.SessionUseCase
	Tokens   *session.TokenIssuer
	Auth     *auth.AuthService
	Flights  *flights.FlightService
	Search   *search.SearchService
	Bookings *booking.BookingService
	Admin    *admin.AdminService

	backend  *storage.Backend
	redis    *redis.Client
	producer *kafka.Producer
	log      *slog.Logger
}

func NewContainer(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Container, error) {
	c := &Container{log: log}

	if cfg.Redis.Enabled() {
		c.redis = cache.NewRedisClient(cfg.Redis)
		if err := c.redis.Ping(ctx).Err(); err != nil {
			_ = c.redis.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	backend, err := storage.Open(ctx, cfg, c.redis)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.backend = backend

	var (
		flightCache  flights.FlightCache
		bookingCache booking.Cache
		sessionStore session.Store = session.NewDocStore(backend.Store, backend.Locker)
		producer     booking.Producer
	)
	if c.redis != nil {
		rc := cache.NewRedisCache(c.redis, cfg.Booking.CacheTTL())
		flightCache, bookingCache = rc, rc
		sessionStore = session.NewRedisStore(c.redis)
	}
	if cfg.Kafka.Enabled() {
		c.producer = kafka.NewProducer(cfg.Kafka.Brokers, log)
		producer = c.producer
	}

	airports, err := fixtures.LoadAirports(cfg.Fixtures.AirportsPath)
	if err != nil {
		c.Close()
		return nil, err
	}

	store, locker := backend.Store, backend.Locker
	users := repository.NewUserRepository(store, locker)
	flightRepo := repository.NewFlightRepository(store, locker, fixtures.FlightSeed(cfg.Fixtures.FlightsPath))
	bookingRepo := repository.NewBookingRepository(store, locker)

	c.Sessions = session.NewService(sessionStore, cfg.Auth.SessionIdle())
	c.Tokens = session.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	c.Auth = auth.NewAuthService(users, c.Sessions, c.Tokens, auth.NewHasher(cfg.Auth.BcryptCost), log)
	c.Flights = flights.NewFlightService(flightRepo, flightCache, log)
	c.Search = search.NewSearchService(search.NewDirectory(airports), c.Flights, repository.NewSearchParamsRepository(store), log)
	c.Bookings = booking.NewBookingService(
		bookingRepo,
		repository.NewCheckoutRepository(store, locker),
		flightRepo,
		bookingCache,
		producer,
		cfg.Kafka.BookingTopic,
		cfg.Booking.HoldTTL(),
		log,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithDelays(cfg.Booking.PaymentDelay(), cfg.Booking.CancelDelay()),
	)
	c.Admin = admin.NewAdminService(users, flightRepo, bookingRepo)
	return c, nil
}

// Router builds the HTTP API over the container's services.
func (c *Container) Router(cfg *config.Config) *gin.Engine {
	return api.NewRouter(api.Deps{
		Auth:     c.Auth,
		Sessions: c.Sessions,
		Tokens:   c.Tokens,
		Cookie:   session.CookieOptions{Secure: cfg.HTTP.SecureCookie},
		Policy:   guard.DefaultPolicy(),
		Flights:  c.Flights,
		Search:   c.Search,
		Bookings: c.Bookings,
		Admin:    c.Admin,
		Log:      c.log,
	})
}

func (c *Container) Close() {
	if c.producer != nil {
		if err := c.producer.Close(); err != nil {
			c.log.Warn("close kafka producer", "error", err)
		}
	}
	if c.backend != nil {
		if err := c.backend.Close(); err != nil {
			c.log.Warn("close storage", "error", err)
		}
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
}
