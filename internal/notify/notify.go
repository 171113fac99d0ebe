// Package notify delivers booking events to people: customers by email and the operations chat by telegram.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flymate/internal/kafka"
)

type Sender interface {
	Send(ctx context.Context, event kafka.BookingEvent) error
}

// Fanout sends to every sender and joins their errors.
type Fanout []Sender

func (f Fanout) Send(ctx context.Context, event kafka.BookingEvent) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Send(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Describe renders an event as a one-line human message.
func Describe(event kafka.BookingEvent) string {
	var b strings.Builder
	switch event.Type {
	case kafka.EventBookingConfirmed:
		fmt.Fprintf(&b, "Booking %s confirmed", event.BookingID)
	case kafka.EventBookingCancelled:
		fmt.Fprintf(&b, "Booking %s cancelled", event.BookingID)
	case kafka.EventBookingExpired:
		fmt.Fprintf(&b, "Checkout %s expired", event.Token)
	default:
		fmt.Fprintf(&b, "Booking event %s", event.Type)
	}
	fmt.Fprintf(&b, " for flight %s (%s)", event.FlightID, event.Email)
	if event.Amount > 0 {
		fmt.Fprintf(&b, ", amount %.2f", event.Amount)
	}
	return b.String()
}
