package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Domenick1991/flymate/internal/domain"
	"github.com/Domenick1991/flymate/internal/service/booking"
	"github.com/Domenick1991/flymate/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testUser = &domain.Session{ID: "s-1", Email: "alice@x.com", Role: domain.RoleUser, Name: "Alice"}

func TestBookingHandler_start(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newTestContext("POST", "/api/v1/bookings", `{"flightId":"DEL-BOM-1","passengers":[{"name":"Bob","age":30}]}`)
	session.Attach(c, testUser)

	checkout := &domain.Checkout{Token: "t-1", FlightID: "DEL-BOM-1", Status: domain.BookingStatusPending}
	mockService.On("Start", c.Request.Context(), "alice@x.com", booking.StartInput{
		FlightID:   "DEL-BOM-1",
		Passengers: []domain.Passenger{{Name: "Bob", Age: 30}},
	}).Return(checkout, nil)

	handler.start(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got domain.Checkout
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "t-1", got.Token)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_start_NoSession(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newTestContext("POST", "/api/v1/bookings", `{"flightId":"DEL-BOM-1"}`)

	handler.start(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_confirm(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "confirmed", status: http.StatusCreated},
		{name: "expired", err: domain.ErrCheckoutExpired, status: http.StatusGone},
		{name: "sold out", err: domain.ErrNoSeatsAvailable, status: http.StatusConflict},
		{name: "unknown token", err: domain.ErrNotFound, status: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService)

			c, w := newTestContext("POST", "/api/v1/bookings/checkout/t-1/confirm", "")
			c.Params = gin.Params{{Key: "token", Value: "t-1"}}
			session.Attach(c, testUser)

			if tc.err != nil {
				mockService.On("Confirm", c.Request.Context(), "alice@x.com", "t-1").Return(nil, tc.err)
			} else {
				mockService.On("Confirm", c.Request.Context(), "alice@x.com", "t-1").Return(&domain.Booking{ID: "b-1"}, nil)
			}

			handler.confirm(c)

			assert.Equal(t, tc.status, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newTestContext("DELETE", "/api/v1/bookings/b-1", "")
	c.Params = gin.Params{{Key: "id", Value: "b-1"}}
	session.Attach(c, testUser)

	mockService.On("Cancel", c.Request.Context(), *testUser, "b-1").
		Return(&domain.Booking{ID: "b-1", Status: domain.BookingStatusCancelled}, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)
	mockService.AssertExpectations(t)
}

func TestAdminHandler_listBookings(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	handler := NewAdminHandler(&MockAdminUseCase{}, mockBookings, &MockAuthUseCase{})

	c, w := newTestContext("GET", "/api/v1/admin/bookings?q=alice&status=refunded", "")
	mockBookings.On("List", c.Request.Context(), booking.ListFilter{Query: "alice", Status: "refunded"}).
		Return(nil, domain.NewValidationError("status", "must be one of all confirmed pending cancelled"))

	handler.listBookings(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Fields, "status")
}
