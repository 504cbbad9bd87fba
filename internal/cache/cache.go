package cache

import (
	"context"
	"sync"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/realtime"
	"github.com/sirupsen/logrus"
)

// Updater keeps cache in sync with changes made outside of this process
type Updater interface {
	Listen(context.Context) error
	Stop()
}

// ChangeFeed provides subscription to row changes
type ChangeFeed interface {
	Subscribe(tables ...string) *realtime.Subscription
	Closed() bool
}

type customerCacheUpdater struct {
	feed  ChangeFeed
	cache CustomerCache
	stop  chan struct{}
	once  sync.Once
}

// NewCustomerCacheUpdater builds Updater which evicts customers changed by any writer, including other instances
func NewCustomerCacheUpdater(feed ChangeFeed, cache CustomerCache) Updater {
	return &customerCacheUpdater{
		feed:  feed,
		cache: cache,
		stop:  make(chan struct{}),
	}
}

// Listen blocks until updater is stopped or feed is closed. Subscription dropped by feed is renewed.
func (u *customerCacheUpdater) Listen(ctx context.Context) error {
	for {
		sub := u.feed.Subscribe(realtime.TableCustomers)
		renew := u.consume(ctx, sub)
		sub.Close()
		if !renew || u.feed.Closed() {
			return nil
		}
		logrus.Warn("customer cache updater fell behind the change feed, resubscribing")
	}
}

func (u *customerCacheUpdater) consume(ctx context.Context, sub *realtime.Subscription) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-u.stop:
			return false
		case env, ok := <-sub.C:
			if !ok {
				return true
			}
			u.evict(ctx, env)
		}
	}
}

func (u *customerCacheUpdater) evict(ctx context.Context, env realtime.Envelope) {
	ev, err := realtime.Decode[model.Customer](env)
	if err != nil {
		logrus.WithError(err).Error("failed to decode customer change")
		return
	}

	if _, inserted := ev.(realtime.Inserted[model.Customer]); inserted {
		return
	}

	if err := u.cache.DeleteByID(ctx, ev.Key()); err != nil {
		logrus.WithError(err).WithField("customer", ev.Key()).Error("failed to evict customer from cache")
	}
}

func (u *customerCacheUpdater) Stop() {
	u.once.Do(func() {
		close(u.stop)
	})
}
