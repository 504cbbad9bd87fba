package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/realtime"
	"github.com/sirupsen/logrus"
)

const defaultResubscribeDelay = 3 * time.Second

// ErrAlreadyStarted is returned by Start of running reconciler
var ErrAlreadyStarted = errors.New("reconciler is already started")

// Loader reads current state, it is used to rebuild screen after change stream was broken
type Loader interface {
	Load(context.Context) ([]model.Customer, []model.Wash, error)
}

// Reconciler merges customer and wash changes of Source into Screen for the lifetime
// between Start and Stop
type Reconciler struct {
	source           Source
	screen           *Screen
	loader           Loader
	resubscribeDelay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReconciler builds Reconciler, loader may be nil and then screen is not reloaded on resubscription
func NewReconciler(source Source, screen *Screen, loader Loader) *Reconciler {
	return &Reconciler{
		source:           source,
		screen:           screen,
		loader:           loader,
		resubscribeDelay: defaultResubscribeDelay,
	}
}

// Start subscribes to customers and washes streams, it returns once subscription is established
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done != nil {
		return ErrAlreadyStarted
	}

	stream, err := r.source.Subscribe(ctx, realtime.TableCustomers, realtime.TableWashes)
	if err != nil {
		return fmt.Errorf("failed to subscribe to changes - %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.run(ctx, stream, r.done)
	return nil
}

// Stop tears subscription down and returns after the last change was applied.
// Calling Stop on stopped reconciler does nothing.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Reconciler) run(ctx context.Context, stream Stream, done chan struct{}) {
	defer close(done)

	for stream != nil {
		r.consume(ctx, stream)
		if err := stream.Close(); err != nil {
			logrus.WithError(err).Debug("failed to close change stream")
		}

		if ctx.Err() != nil {
			return
		}

		logrus.Warn("change stream ended, reloading state and resubscribing")
		stream = r.resubscribe(ctx)
	}
}

func (r *Reconciler) consume(ctx context.Context, stream Stream) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-stream.Events():
			if !ok {
				return
			}
			r.apply(env)
		}
	}
}

// resubscribe returns nil when context is done
func (r *Reconciler) resubscribe(ctx context.Context) Stream {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(r.resubscribeDelay):
		}

		stream, err := r.source.Subscribe(ctx, realtime.TableCustomers, realtime.TableWashes)
		if err != nil {
			logrus.WithError(err).Error("failed to resubscribe to changes")
			continue
		}

		if r.loader == nil {
			return stream
		}

		customers, washes, err := r.loader.Load(ctx)
		if err != nil {
			logrus.WithError(err).Error("failed to reload state")
			_ = stream.Close()
			continue
		}

		r.screen.Reset(customers, washes)
		return stream
	}
}

func (r *Reconciler) apply(env realtime.Envelope) {
	switch env.Table {
	case realtime.TableCustomers:
		ev, err := realtime.Decode[model.Customer](env)
		if err != nil {
			logrus.WithError(err).Error("failed to decode customer change")
			return
		}
		r.screen.ApplyCustomer(ev)
	case realtime.TableWashes:
		ev, err := realtime.Decode[model.Wash](env)
		if err != nil {
			logrus.WithError(err).Error("failed to decode wash change")
			return
		}
		r.screen.ApplyWash(ev)
	default:
		logrus.WithField("table", env.Table).Debug("change of unknown table skipped")
	}
}
