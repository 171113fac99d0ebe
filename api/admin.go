package api

import (
	"net/http"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/service/admin"
	"github.com/Domenick1991/flymate/internal/service/auth"
	"github.com/Domenick1991/flymate/internal/service/booking"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin    admin.AdminUseCase
	bookings booking.BookingUseCase
	users    auth.AuthUseCase
}

func NewAdminHandler(admin admin.AdminUseCase, bookings booking.BookingUseCase, users auth.AuthUseCase) *AdminHandler {
	return &AdminHandler{admin: admin, bookings: bookings, users: users}
}

func (h *AdminHandler) Register(g Groups) {
	g.Admins.GET("/admin/dashboard", h.dashboard)
	g.Admins.GET("/admin/bookings", h.listBookings)
	g.Admins.DELETE("/admin/bookings/:id", h.cancelBooking)
	g.Admins.GET("/admin/users", h.listUsers)
}

func (h *AdminHandler) dashboard(c *gin.Context) {
	d, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *AdminHandler) listBookings(c *gin.Context) {
	list, err := h.bookings.List(c.Request.Context(), booking.ListFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) cancelBooking(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	b, err := h.bookings.Cancel(c.Request.Context(), *sess, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
