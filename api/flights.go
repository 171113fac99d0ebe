package api

import (
	"net/http"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/service/flights"
	"github.com/Domenick1991/flymate/internal/service/search"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	search  search.SearchUseCase
}

func NewFlightHandler(service flights.FlightUseCase, search search.SearchUseCase) *FlightHandler {
	return &FlightHandler{service: service, search: search}
}

func (h *FlightHandler) Register(g Groups) {
	g.Members.GET("/flights", h.list)
	g.Members.GET("/flights/:id", h.get)
	g.Users.POST("/flights/search", h.searchFlights)

	g.Admins.POST("/admin/flights", h.create)
	g.Admins.PUT("/admin/flights/:id", h.update)
	g.Admins.DELETE("/admin/flights/:id", h.delete)
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) searchFlights(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	var req searchRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.search.Search(c.Request.Context(), sess.Email, search.Criteria{
		From:   req.From,
		To:     req.To,
		Date:   req.Date,
		Direct: req.Direct,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flightRequest
	if !bindJSON(c, &req) {
		return
	}
	flight, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) update(c *gin.Context) {
	var req flightRequest
	if !bindJSON(c, &req) {
		return
	}
	flight, err := h.service.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
