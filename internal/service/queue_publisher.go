// Package service provides the RabbitMQ publisher for write events.
// Errors are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/movie-rental-api/internal/logging"
	"github.com/iliyamo/movie-rental-api/internal/metrics"
	"github.com/iliyamo/movie-rental-api/internal/queue"
)

// dialTimeout bounds the broker handshake so a down broker cannot stall
// the request that triggered the event.
const dialTimeout = 2 * time.Second

// AMQPPublisher publishes RentalEvents to the rental.events queue.  It
// opens a connection per event and keeps no state between requests.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url}
}

// Publish sends ev as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.RentalEvent) (err error) {
	defer func() { metrics.RecordEventPublish(ev.Type, err) }()

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err = ch.QueueDeclare(
		queue.QueueName, // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Timestamp:     ev.OccurredAt,
		Type:          ev.Type,
		CorrelationId: ev.RequestID,
		Body:          body,
	}
	if err = ch.PublishWithContext(ctx,
		"",              // default exchange
		queue.QueueName, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}

// NopPublisher drops every event.  It is used when the event feed is
// disabled.
type NopPublisher struct{}

// Publish implements the publisher interface and always succeeds.
func (NopPublisher) Publish(context.Context, queue.RentalEvent) error { return nil }
