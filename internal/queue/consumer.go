package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/movie-rental-api/internal/logging"
)

// AuditConsumer reads rental.events and appends one line per event to an
// audit log file.
type AuditConsumer struct {
	URL     string
	LogPath string
}

// NewAuditConsumer constructs an AuditConsumer for the broker at url.
func NewAuditConsumer(url, logPath string) *AuditConsumer {
	return &AuditConsumer{URL: url, LogPath: logPath}
}

// Run connects to the broker, declares the durable queue and consumes it
// until ctx is cancelled.  Dial failures and dropped connections are
// retried with exponential backoff capped at 30s.
func (a *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(a.URL)
		if err != nil {
			logging.Warn().Err(err).Dur("retry_in", backoff).Msg("audit-consumer: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = a.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Warn().Err(err).Msg("audit-consumer: consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (a *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logging.Warn().Err(err).Msg("audit-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	logging.Info().Str("queue", QueueName).Str("path", a.LogPath).Msg("audit-consumer: started")
	for d := range msgs {
		if err := a.Handle(d.Body); err != nil {
			logging.Error().Err(err).Msg("audit-consumer: handle message failed")
			_ = d.Nack(false, false) // do not requeue a message that cannot be handled
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// Handle decodes one message body and appends its audit line.
func (a *AuditConsumer) Handle(body []byte) error {
	var ev RentalEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}
	if dir := filepath.Dir(a.LogPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(a.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	return WriteAuditLine(f, ev)
}

// WriteAuditLine writes ev as a single human-readable line.
func WriteAuditLine(w io.Writer, ev RentalEvent) error {
	line := fmt.Sprintf("[%s] %s | customer_id=%d", ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.CustomerID)
	if ev.FilmID != 0 {
		line += fmt.Sprintf(" | film_id=%d", ev.FilmID)
	}
	if ev.RequestID != "" {
		line += " | request_id=" + ev.RequestID
	}
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

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
