package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// AMQPPublisher mirrors every dispatched event onto a durable RabbitMQ queue
// so external consumers (analytics, notification fan-out) can follow the
// platform without querying the database.
type AMQPPublisher struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	queueName string
	cb        *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewAMQPPublisher dials RabbitMQ and declares the queue.
func NewAMQPPublisher(url, queueName string, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Idempotent declare.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "amqp-events",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &AMQPPublisher{
		conn:      conn,
		ch:        ch,
		queueName: queueName,
		cb:        cb,
		logger:    logger,
	}, nil
}

// Mirror subscribes the publisher to every event type on the dispatcher.
func (p *AMQPPublisher) Mirror(dispatcher Dispatcher) {
	types := []EventType{
		EventAccountRegistered,
		EventAccountDecided,
		EventAccountBlockToggled,
		EventBookingCreated,
		EventBookingStatusChanged,
		EventBookingAssigned,
		EventBookingPaid,
		EventRatingAdded,
	}
	for _, t := range types {
		dispatcher.Subscribe(t, p.publish)
	}
}

func (p *AMQPPublisher) publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.Timestamp,
			Type:         string(event.Type),
			Body:         body,
		})
	})
	if err != nil {
		p.logger.Warn("amqp publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
	return err
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
