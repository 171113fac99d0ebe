package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flymate/internal/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	messages []kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, logger.Discard())

	event := BookingEvent{Type: EventBookingConfirmed, BookingID: "b-1", FlightID: "DEL-BOM-1", Email: "bob@x.com", Amount: 4520}
	require.NoError(t, producer.Publish(context.Background(), "bookings", event.Key(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "bookings", msg.Topic)
	assert.Equal(t, "b-1", string(msg.Key))

	var decoded BookingEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestProducer_PublishError(t *testing.T) {
	producer := NewProducerWithWriter(&fakeWriter{err: errors.New("broker down")}, logger.Discard())

	err := producer.Publish(context.Background(), "bookings", "k", BookingEvent{Type: EventBookingCancelled})
	assert.ErrorContains(t, err, "broker down")
}

func TestBookingEvent_Key(t *testing.T) {
	assert.Equal(t, "b-1", BookingEvent{BookingID: "b-1", Token: "t-1"}.Key())
	assert.Equal(t, "t-1", BookingEvent{Token: "t-1"}.Key())
}

func TestConsumer_ConsumeEventsSkipsMalformed(t *testing.T) {
	valid, err := json.Marshal(BookingEvent{Type: EventBookingExpired, Token: "t-1", OccurredAt: time.Unix(0, 0).UTC()})
	require.NoError(t, err)

	reader := &fakeReader{messages: []kafka.Message{
		{Value: []byte("not json")},
		{Value: []byte(`{"token":"x"}`)},
		{Value: valid},
	}}
	consumer := NewConsumerWithReader(reader, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	var got []BookingEvent
	err = consumer.ConsumeEvents(ctx, func(_ context.Context, e BookingEvent) error {
		got = append(got, e)
		cancel()
		return nil
	})

	assert.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t-1", got[0].Token)
}

func TestConsumer_HandlerErrorStops(t *testing.T) {
	valid, err := json.Marshal(BookingEvent{Type: EventBookingCancelled})
	require.NoError(t, err)
	consumer := NewConsumerWithReader(&fakeReader{messages: []kafka.Message{{Value: valid}}}, logger.Discard())

	err = consumer.ConsumeEvents(context.Background(), func(context.Context, BookingEvent) error {
		return errors.New("smtp down")
	})
	assert.ErrorContains(t, err, "smtp down")
}
