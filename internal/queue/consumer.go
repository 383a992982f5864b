package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartAuditConsumer connects to the broker, declares the events queue
// (durable) and logs every entity event it receives.  It reconnects with
// exponential backoff until ctx is cancelled, then returns ctx.Err().
// Undecodable messages are rejected without requeue.
func StartAuditConsumer(ctx context.Context, url, queue string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "audit_consumer", "queue", queue)

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.WarnContext(ctx, "dial failed", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, queue, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.WarnContext(ctx, "consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, logger *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.WarnContext(ctx, "set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(ctx, logger, d.Body); err != nil {
			logger.WarnContext(ctx, "handle message failed", "error", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(ctx context.Context, logger *slog.Logger, body []byte) error {
	var ev EntityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.Resource == "" {
		return errors.New("event without type or resource")
	}
	attrs := []any{"type", ev.Type, "resource", ev.Resource, "id", ev.ID, "occurred_at", ev.OccurredAt}
	if ev.Cascaded > 0 {
		attrs = append(attrs, "cascaded", ev.Cascaded)
	}
	logger.InfoContext(ctx, "entity changed", attrs...)
	return nil
}

// sleep waits for d or until ctx is done; it reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
