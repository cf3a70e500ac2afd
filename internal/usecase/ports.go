package usecase

import (
	"context"

	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/worker"
)

// StatusCache keeps the latest known status of an order.
type StatusCache interface {
	SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	// SetStatusIfAbsent stores status only when no entry exists.
	SetStatusIfAbsent(ctx context.Context, orderID string, status model.OrderStatus) (bool, error)
	GetStatus(ctx context.Context, orderID string) (model.OrderStatus, bool, error)
	DeleteStatus(ctx context.Context, orderID string) error
}

// IdempotencyStore deduplicates checkout requests carrying the same key.
type IdempotencyStore interface {
	// TryLock claims key; false means another request holds it.
	TryLock(ctx context.Context, key string) (bool, error)
	Remember(ctx context.Context, key, orderID string) error
	Recall(ctx context.Context, key string) (string, bool, error)
	Release(ctx context.Context, key string) error
}

// EventPublisher announces applied status transitions.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event model.StatusEvent) error
}

// StockFanout runs independent stock jobs and reports one error per job.
type StockFanout interface {
	Run(ctx context.Context, jobs []worker.Job) []error
}

type inlineFanout struct{}

func (inlineFanout) Run(ctx context.Context, jobs []worker.Job) []error {
	errs := make([]error, len(jobs))
	for i, job := range jobs {
		errs[i] = job.Run(ctx)
	}
	return errs
}

type nopStatusCache struct{}

func (nopStatusCache) SetStatus(context.Context, string, model.OrderStatus) error {
	return nil
}

func (nopStatusCache) SetStatusIfAbsent(context.Context, string, model.OrderStatus) (bool, error) {
	return false, nil
}

func (nopStatusCache) GetStatus(context.Context, string) (model.OrderStatus, bool, error) {
	return "", false, nil
}

func (nopStatusCache) DeleteStatus(context.Context, string) error {
	return nil
}

type nopIdempotencyStore struct{}

func (nopIdempotencyStore) TryLock(context.Context, string) (bool, error) {
	return true, nil
}

func (nopIdempotencyStore) Remember(context.Context, string, string) error {
	return nil
}

func (nopIdempotencyStore) Recall(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (nopIdempotencyStore) Release(context.Context, string) error {
	return nil
}

type nopPublisher struct{}

func (nopPublisher) PublishStatusChanged(context.Context, model.StatusEvent) error {
	return nil
}
