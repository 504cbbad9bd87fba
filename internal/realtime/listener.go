package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/WeDoCheapies/website/internal/metrics"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	defaultReconnectDelay = 3 * time.Second
	closeTimeout          = time.Second
)

// Publisher receives decoded change envelopes
type Publisher interface {
	Publish(Envelope)
}

// PgListener listens PostgreSQL notifications emitted by row triggers and publishes them.
// Postgres delivers notifications only after commit and in commit order.
type PgListener struct {
	pool           *pgxpool.Pool
	publisher      Publisher
	channels       []string
	reconnectDelay time.Duration
}

func NewPgListener(pool *pgxpool.Pool, publisher Publisher, channels ...string) *PgListener {
	return &PgListener{
		pool:           pool,
		publisher:      publisher,
		channels:       channels,
		reconnectDelay: defaultReconnectDelay,
	}
}

// Listen blocks until context is done, connection is reestablished after failures
func (l *PgListener) Listen(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}

		logrus.WithError(err).WithField("retryIn", l.reconnectDelay).Error("lost connection for database notifications")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.reconnectDelay):
		}
	}
}

func (l *PgListener) listen(ctx context.Context) error {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection - %w", err)
	}

	// connection keeps LISTEN subscriptions, it must never return to the pool
	conn := pooled.Hijack()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := conn.Close(closeCtx); err != nil {
			logrus.WithError(err).Warn("failed to close notifications connection")
		}
	}()

	for _, ch := range l.channels {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
			return fmt.Errorf("failed to listen channel %s - %w", ch, err)
		}
	}
	logrus.WithField("channels", l.channels).Info("listening for database notifications")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("failed to wait for notification - %w", err)
		}
		l.handle(n.Channel, n.Payload)
	}
}

func (l *PgListener) handle(channel string, payload string) {
	var env Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		logrus.WithError(err).WithField("channel", channel).Error("failed to decode database notification")
		return
	}

	if env.Table == "" {
		env.Table = channel
	}

	metrics.RealtimeEvents.WithLabelValues(env.Table, string(env.Type)).Inc()
	l.publisher.Publish(env)
}
