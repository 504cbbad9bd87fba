package notify

import (
	"context"
	"errors"

	"github.com/WeDoCheapies/website/internal/metrics"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/sirupsen/logrus"
)

// ErrQueueFull is returned when dispatcher can't accept more notifications
var ErrQueueFull = errors.New("notification queue is full")

// Notifier informs customer about loyalty milestones
type Notifier interface {
	FreeWashEarned(context.Context, *model.Customer) error
}

type logNotifier struct{}

// NewLogNotifier builds Notifier which only logs, it is used when no mail provider is configured
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) FreeWashEarned(_ context.Context, c *model.Customer) error {
	logrus.WithFields(logrus.Fields{"customer": c.ID, "email": c.Email}).Info("customer earned a free wash")
	return nil
}

// Dispatcher queues notifications and delivers them in background through wrapped Notifier
type Dispatcher struct {
	next  Notifier
	queue chan model.Customer
}

func NewDispatcher(next Notifier, size int) *Dispatcher {
	return &Dispatcher{
		next:  next,
		queue: make(chan model.Customer, size),
	}
}

// FreeWashEarned enqueues notification, it never blocks
func (d *Dispatcher) FreeWashEarned(_ context.Context, c *model.Customer) error {
	select {
	case d.queue <- *c:
		return nil
	default:
		metrics.NotificationsSent.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

// Run delivers queued notifications until context is done
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-d.queue:
			d.deliver(ctx, &c)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, c *model.Customer) {
	if err := d.next.FreeWashEarned(ctx, c); err != nil {
		metrics.NotificationsSent.WithLabelValues("failed").Inc()
		logrus.WithError(err).WithField("customer", c.ID).Error("failed to notify customer about free wash")
		return
	}
	metrics.NotificationsSent.WithLabelValues("sent").Inc()
}
