package api

import (
	"log/slog"
	"time"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/guard"
	"github.com/Domenick1991/flymate/internal/service/admin"
	"github.com/Domenick1991/flymate/internal/service/auth"
	"github.com/Domenick1991/flymate/internal/service/booking"
	"github.com/Domenick1991/flymate/internal/service/flights"
	"github.com/Domenick1991/flymate/internal/service/search"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/gin-gonic/gin"
)

const BasePath = "/api/v1"

// Groups are the role-scoped route groups handlers register into.
type Groups struct {
	Public  *gin.RouterGroup
	Members *gin.RouterGroup
	Users   *gin.RouterGroup
	Admins  *gin.RouterGroup
}

type Deps struct {
	Auth     auth.AuthUseCase
	Sessions session.SessionUseCase
	Tokens   *session.TokenIssuer
	Cookie   session.CookieOptions
	Policy   *guard.Policy
	Flights  flights.FlightUseCase
	Search   search.SearchUseCase
	Bookings booking.BookingUseCase
	Admin    admin.AdminUseCase
	Log      *slog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	useJSONFieldNames()

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(d.Log))

	v1 := engine.Group(BasePath, session.Middleware(d.Sessions, d.Tokens, d.Cookie, d.Log))
	g := Groups{
		Public:  v1,
		Members: v1.Group("", d.Policy.Authorize(domain.RoleUser, domain.RoleAdmin)),
		Users:   v1.Group("", d.Policy.Authorize(domain.RoleUser)),
		Admins:  v1.Group("", d.Policy.Authorize(domain.RoleAdmin)),
	}

	NewAuthHandler(d.Auth, d.Policy, d.Cookie).Register(g)
	NewNavigationHandler(d.Policy).Register(g)
	NewAirportHandler(d.Search).Register(g)
	NewSessionHandler(d.Bookings).Register(g)
	NewFlightHandler(d.Flights, d.Search).Register(g)
	NewBookingHandler(d.Bookings).Register(g)
	NewAdminHandler(d.Admin, d.Bookings, d.Auth).Register(g)

	return engine
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if err := c.Errors.Last(); err != nil {
			log.Error("request failed", append(attrs, "error", err.Err)...)
			return
		}
		log.Info("request", attrs...)
	}
}
