package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"carrental/internal/model"
)

const publisherAppID = "carrental"

type BookingEventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewBookingEventPublisher(conn *amqp.Connection, queueName string) *BookingEventPublisher {
	return &BookingEventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

// Publish sends event to the booking queue on the default exchange.
func (p *BookingEventPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if _, err := declareQueue(ch, p.queueName); err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	if err := ch.PublishWithContext(ctx, "", p.queueName, false, false, msg); err != nil {
		return fmt.Errorf("publish booking event %s failed: %w", msg.MessageId, err)
	}
	return nil
}

// newPublishing builds a persistent JSON message. Each message gets a fresh id
// and is correlated to its booking, so redeliveries of one booking can be traced.
func newPublishing(event model.BookingEvent) (amqp.Publishing, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal booking event failed: %w", err)
	}
	return amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: event.BookingID,
		AppId:         publisherAppID,
		Type:          event.Type,
		Timestamp:     event.OccurredAt,
		Body:          payload,
	}, nil
}
