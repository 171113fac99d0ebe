package api

import (
	"net/http"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/service/booking"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(g Groups) {
	g.Users.POST("/bookings", h.start)
	g.Users.POST("/bookings/checkout/:token/confirm", h.confirm)
	g.Users.DELETE("/bookings/checkout/:token", h.abandon)
	g.Users.GET("/bookings/mine", h.mine)
	g.Users.DELETE("/bookings/:id", h.cancel)
}

func (h *BookingHandler) start(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	var req startBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	checkout, err := h.service.Start(c.Request.Context(), sess.Email, booking.StartInput{
		FlightID:   req.FlightID,
		Passengers: req.passengers(),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkout)
}

func (h *BookingHandler) confirm(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	b, err := h.service.Confirm(c.Request.Context(), sess.Email, c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) abandon(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	if err := h.service.Abandon(c.Request.Context(), sess.Email, c.Param("token")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) mine(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	bookings, err := h.service.ListMine(c.Request.Context(), sess.Email)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	b, err := h.service.Cancel(c.Request.Context(), *sess, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
