package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

const (
	exchangeName = "library.events"
	exchangeType = "topic"

	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
	confirmTimeout = 5 * time.Second
)

// AMQPPublisher publishes domain events to a RabbitMQ topic exchange with
// publisher confirms and bounded retry.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zap.Logger
}

// Event is the wire envelope shared by all published events.
type Event struct {
	EventID      string                 `json:"event_id"`
	EventType    string                 `json:"event_type"`
	EventVersion string                 `json:"event_version"`
	Timestamp    string                 `json:"timestamp"`
	Payload      map[string]interface{} `json:"payload"`
}

// NewAMQPPublisher connects to the broker and declares the exchange.
func NewAMQPPublisher(url string, log *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchangeName,
		exchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	log.Info("connected to RabbitMQ", zap.String("exchange", exchangeName))

	return &AMQPPublisher{
		conn:    conn,
		channel: channel,
		log:     log,
	}, nil
}

// BookAdded publishes a book.added event.
func (p *AMQPPublisher) BookAdded(ctx context.Context, book *domain.Book) error {
	return p.publish(ctx, EventTypeBookAdded, map[string]interface{}{
		"book_id":   book.ID,
		"title":     book.Title,
		"author":    book.Author,
		"isbn":      book.ISBN,
		"quantity":  book.Quantity,
		"available": book.Available,
	})
}

// BookWrittenOff publishes a book.written_off event.
func (p *AMQPPublisher) BookWrittenOff(ctx context.Context, bookID uint) error {
	return p.publish(ctx, EventTypeBookWrittenOff, map[string]interface{}{
		"book_id": bookID,
	})
}

// ReservationCreated publishes a reservation.created event.
func (p *AMQPPublisher) ReservationCreated(ctx context.Context, r *domain.Reservation) error {
	return p.publish(ctx, EventTypeReservationCreated, reservationPayload(r))
}

// ReservationTransitioned publishes a reservation.transitioned event with
// the new status in the payload.
func (p *AMQPPublisher) ReservationTransitioned(ctx context.Context, r *domain.Reservation) error {
	return p.publish(ctx, EventTypeReservationMoved, reservationPayload(r))
}

func reservationPayload(r *domain.Reservation) map[string]interface{} {
	payload := map[string]interface{}{
		"reservation_id": r.ID,
		"book_id":        r.BookID,
		"user_id":        r.UserID,
		"status":         string(r.Status),
	}
	if r.PickupDeadline != nil {
		payload["pickup_deadline"] = r.PickupDeadline.UTC().Format(time.RFC3339)
	}
	return payload
}

// publish sends one event with exponential backoff retry and waits for the
// broker confirm on each attempt.
func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, payload map[string]interface{}) error {
	event := Event{
		EventID:      uuid.New().String(),
		EventType:    routingKey,
		EventVersion: "1.0.0",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Payload:      payload,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
			}
		}

		confirms := p.channel.NotifyPublish(make(chan amqp.Confirmation, 1))

		err := p.channel.PublishWithContext(
			ctx,
			exchangeName,
			routingKey,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now(),
				MessageId:    event.EventID,
				Body:         body,
				Headers: amqp.Table{
					"event_type":    event.EventType,
					"event_version": event.EventVersion,
				},
			},
		)
		if err != nil {
			lastErr = err
			p.log.Warn("failed to publish event, retrying",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}

		select {
		case confirm := <-confirms:
			if confirm.Ack {
				p.log.Debug("event published",
					zap.String("event_id", event.EventID),
					zap.String("event_type", event.EventType),
				)
				return nil
			}
			lastErr = fmt.Errorf("event not acknowledged")
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(confirmTimeout):
			lastErr = fmt.Errorf("confirmation timeout")
		}

		p.log.Warn("event publish not confirmed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}

	p.log.Error("failed to publish event after retries",
		zap.String("event_type", event.EventType),
		zap.Int("attempts", maxRetries),
		zap.Error(lastErr),
	)
	return fmt.Errorf("failed to publish event after %d attempts: %w", maxRetries, lastErr)
}

// IsHealthy checks if the broker connection is alive.
func (p *AMQPPublisher) IsHealthy() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Error("failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.log.Error("failed to close connection", zap.Error(err))
			return err
		}
	}
	return nil
}
