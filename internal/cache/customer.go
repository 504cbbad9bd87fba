package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/go-redis/redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// CustomerCache is read-through cache of customers. Every eviction bumps version of the entry,
// readers take Version before loading customer from database and Create is skipped once it has changed.
type CustomerCache interface {
	FindByID(context.Context, string) (*model.Customer, error)
	Version(context.Context, string) (int64, error)
	Create(context.Context, *model.Customer, int64) error
	DeleteByID(context.Context, string) error
}

type redisCustomerCache struct {
	client     *redis.Client
	timeToLive time.Duration
}

func NewRedisCustomerCache(client *redis.Client, ttl time.Duration) CustomerCache {
	return &redisCustomerCache{client: client, timeToLive: ttl}
}

func (r *redisCustomerCache) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	res, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var c model.Customer
	if err := msgpack.Unmarshal(res, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *redisCustomerCache) Version(ctx context.Context, id string) (int64, error) {
	version, err := r.client.Get(ctx, r.versionKey(id)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return version, nil
}

// DeleteByID evicts customer and invalidates reads which started before eviction
func (r *redisCustomerCache) DeleteByID(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.versionKey(id))
		pipe.Expire(ctx, r.versionKey(id), 2*r.timeToLive)
		pipe.Del(ctx, r.key(id))
		return nil
	})
	return err
}

// Create caches customer read at given version, nothing is cached if customer was evicted since then
func (r *redisCustomerCache) Create(ctx context.Context, c *model.Customer, version int64) error {
	encoded, err := msgpack.Marshal(c)
	if err != nil {
		return err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, r.versionKey(c.ID)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		if current != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(c.ID), encoded, r.timeToLive)
			return nil
		})
		return err
	}, r.versionKey(c.ID))

	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (r *redisCustomerCache) key(id string) string {
	return fmt.Sprintf("customer:%s", id)
}

func (r *redisCustomerCache) versionKey(id string) string {
	return fmt.Sprintf("customer:%s:version", id)
}
