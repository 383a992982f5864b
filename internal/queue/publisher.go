package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers entity events.  Callers log and drop publish errors;
// a broker outage never fails an API request.
type Publisher interface {
	Publish(ctx context.Context, ev EntityEvent) error
}

// NopPublisher discards events.  It's used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EntityEvent) error { return nil }

// AMQPPublisher publishes each event as a persistent JSON message to a
// durable queue through the default exchange.
type AMQPPublisher struct {
	url         string
	queue       string
	dialTimeout time.Duration
	logger      *slog.Logger
}

func NewAMQPPublisher(url, queue string, logger *slog.Logger) *AMQPPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPPublisher{
		url:         url,
		queue:       queue,
		dialTimeout: 2 * time.Second,
		logger:      logger.With("component", "event_publisher"),
	}
}

// Publish opens a connection, declares the queue (idempotent) and publishes
// ev.  Errors are logged and returned.
func (p *AMQPPublisher) Publish(ctx context.Context, ev EntityEvent) error {
	body, err := encodeEvent(ev)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal event failed", "error", err)
		return err
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.dialTimeout)})
	if err != nil {
		p.logger.WarnContext(ctx, "dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.WarnContext(ctx, "channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.logger.WarnContext(ctx, "queue declare failed", "queue", p.queue, "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Resource + "." + ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.logger.WarnContext(ctx, "publish failed", "queue", p.queue, "error", err)
		return err
	}
	return nil
}

func encodeEvent(ev EntityEvent) ([]byte, error) {
	return json.Marshal(ev)
}
