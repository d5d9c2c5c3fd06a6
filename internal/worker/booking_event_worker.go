package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"carrental/internal/model"
)

// EventStore persists consumed booking events.
type EventStore interface {
	Create(ctx context.Context, event *model.BookingEvent) error
}

var errMalformedEvent = errors.New("malformed booking event")

const persistTimeout = 5 * time.Second

// BookingEventWorker drains the booking event queue into the audit table.
type BookingEventWorker struct {
	conn      *amqp.Connection
	store     EventStore
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewBookingEventWorker(conn *amqp.Connection, store EventStore, queueName string) *BookingEventWorker {
	return &BookingEventWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
	}
}

func (w *BookingEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	if err := ch.Qos(16, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker prefetch failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					slog.Warn("booking event deliveries closed", "queue", w.queueName)
					return
				}
				w.deliver(workerCtx, d)
			}
		}
	}()

	slog.Info("booking event worker started", "queue", w.queueName)
	return nil
}

func (w *BookingEventWorker) deliver(ctx context.Context, d amqp.Delivery) {
	err := w.handle(ctx, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, errMalformedEvent):
		slog.Error("drop booking event", "message_id", d.MessageId, "error", err)
		_ = d.Nack(false, false)
	default:
		// One retry through the broker, then drop.
		requeue := !d.Redelivered
		slog.Error("persist booking event failed",
			"message_id", d.MessageId, "booking_id", d.CorrelationId, "error", err, "requeue", requeue)
		_ = d.Nack(false, requeue)
	}
}

func (w *BookingEventWorker) handle(ctx context.Context, body []byte) error {
	event, err := decodeEvent(body)
	if err != nil {
		return err
	}

	persistCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	return w.store.Create(persistCtx, event)
}

func decodeEvent(body []byte) (*model.BookingEvent, error) {
	var event model.BookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	if strings.TrimSpace(event.BookingID) == "" || event.Type == "" {
		return nil, fmt.Errorf("%w: missing booking id or type", errMalformedEvent)
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	event.ID = 0
	return &event, nil
}

func (w *BookingEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
