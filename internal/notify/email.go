package notify

import (
	"context"
	"log/slog"

	"github.com/Domenick1991/flymate/internal/kafka"
)

// EmailSender logs the mail it would send. There is no mail transport.
type EmailSender struct {
	log *slog.Logger
}

func NewEmailSender(log *slog.Logger) *EmailSender {
	return &EmailSender{log: log}
}

func (s *EmailSender) Send(_ context.Context, event kafka.BookingEvent) error {
	s.log.Info("send email",
		"to", event.Email,
		"type", event.Type,
		"flight_id", event.FlightID,
		"body", Describe(event),
	)
	return nil
}

var _ Sender = (*EmailSender)(nil)
