package api

import (
	"net/http"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/service/booking"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the caller's own session. Every request under it has already
// been touched by session.Middleware.
type SessionHandler struct {
	bookings booking.BookingUseCase
}

func NewSessionHandler(bookings booking.BookingUseCase) *SessionHandler {
	return &SessionHandler{bookings: bookings}
}

func (h *SessionHandler) Register(g Groups) {
	g.Members.GET("/session", h.current)
	g.Members.POST("/session/activity", h.current)
	g.Users.GET("/profile", h.profile)
}

func (h *SessionHandler) current(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{User: sess.User(), ExpiresAt: sess.ExpiresAt})
}

func (h *SessionHandler) profile(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	mine, err := h.bookings.ListMine(c.Request.Context(), sess.Email)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{User: sess.User(), Bookings: len(mine)})
}
