package redisx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// client is the subset of *redis.Client used by Store.
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

var newClient = func(addr string) client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Store keeps order statuses and checkout idempotency keys in Redis.
// A Store without an address is disabled: reads miss and locks always succeed.
type Store struct {
	client    client
	statusTTL time.Duration
	idemTTL   time.Duration
	logger    *slog.Logger
}

// New creates a Store for addr. An empty address yields a disabled store.
func New(addr string, statusTTL, idemTTL time.Duration, logger *slog.Logger) *Store {
	s := &Store{statusTTL: statusTTL, idemTTL: idemTTL, logger: logger}
	if addr == "" {
		logger.Info("redis disabled, status cache and idempotency keys are off")
		return s
	}
	s.client = newClient(addr)
	return s
}

// Enabled reports whether the store talks to Redis.
func (s *Store) Enabled() bool {
	return s.client != nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// SetStatus caches the latest status of an order.
func (s *Store) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if s.client == nil {
		return nil
	}
	return s.client.Set(ctx, statusKey(orderID), string(status), s.statusTTL).Err()
}

// SetStatusIfAbsent fills an empty status entry with SETNX. It reports
// whether the value was stored.
func (s *Store) SetStatusIfAbsent(ctx context.Context, orderID string, status model.OrderStatus) (bool, error) {
	if s.client == nil {
		return false, nil
	}
	return s.client.SetNX(ctx, statusKey(orderID), string(status), s.statusTTL).Result()
}

// DeleteStatus evicts the cached status of an order.
func (s *Store) DeleteStatus(ctx context.Context, orderID string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, statusKey(orderID)).Err()
}

// GetStatus returns the cached status. Unknown values count as a miss.
func (s *Store) GetStatus(ctx context.Context, orderID string) (model.OrderStatus, bool, error) {
	if s.client == nil {
		return "", false, nil
	}
	val, err := s.client.Get(ctx, statusKey(orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	status := model.OrderStatus(val)
	if !status.Valid() {
		s.logger.Warn("ignoring cached status", slog.String("order_id", orderID), slog.String("value", val))
		return "", false, nil
	}
	return status, true, nil
}

// TryLock claims a checkout key with SETNX.
func (s *Store) TryLock(ctx context.Context, key string) (bool, error) {
	if s.client == nil {
		return true, nil
	}
	return s.client.SetNX(ctx, checkoutKey(key), inFlight, s.idemTTL).Result()
}

// Remember binds a claimed key to the order it produced.
func (s *Store) Remember(ctx context.Context, key, orderID string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Set(ctx, checkoutKey(key), orderID, s.idemTTL).Err()
}

// Recall returns the order remembered for key. A claimed key without an
// order yet is not a hit.
func (s *Store) Recall(ctx context.Context, key string) (string, bool, error) {
	if s.client == nil {
		return "", false, nil
	}
	val, err := s.client.Get(ctx, checkoutKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if val == inFlight {
		return "", false, nil
	}
	return val, true, nil
}

// Release drops a claimed key so the request can be retried.
func (s *Store) Release(ctx context.Context, key string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, checkoutKey(key)).Err()
}
