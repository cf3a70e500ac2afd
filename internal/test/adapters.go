package test

import (
	"context"
	"sync"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// StatusCacheStub is an in-memory status cache.
type StatusCacheStub struct {
	mu sync.Mutex

	Statuses  map[string]model.OrderStatus
	GetErr    error
	SetErr    error
	DeleteErr error
	Gets      int
	Deletes   int
	// BeforeFill runs ahead of SetStatusIfAbsent, outside the lock.
	BeforeFill func(orderID string)
}

// NewStatusCacheStub constructs an empty cache.
func NewStatusCacheStub() *StatusCacheStub {
	return &StatusCacheStub{Statuses: make(map[string]model.OrderStatus)}
}

func (s *StatusCacheStub) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.Statuses[orderID] = status
	return nil
}

func (s *StatusCacheStub) SetStatusIfAbsent(ctx context.Context, orderID string, status model.OrderStatus) (bool, error) {
	if s.BeforeFill != nil {
		s.BeforeFill(orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return false, s.SetErr
	}
	if _, ok := s.Statuses[orderID]; ok {
		return false, nil
	}
	s.Statuses[orderID] = status
	return true, nil
}

func (s *StatusCacheStub) DeleteStatus(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deletes++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.Statuses, orderID)
	return nil
}

func (s *StatusCacheStub) GetStatus(ctx context.Context, orderID string) (model.OrderStatus, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gets++
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	status, ok := s.Statuses[orderID]
	return status, ok, nil
}

// IdempotencyStoreStub mimics SETNX-style locking.
type IdempotencyStoreStub struct {
	mu sync.Mutex

	Locked   map[string]bool
	Orders   map[string]string
	LockErr  error
	Released []string
}

// NewIdempotencyStoreStub constructs an empty store.
func NewIdempotencyStoreStub() *IdempotencyStoreStub {
	return &IdempotencyStoreStub{Locked: make(map[string]bool), Orders: make(map[string]string)}
}

func (s *IdempotencyStoreStub) TryLock(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LockErr != nil {
		return false, s.LockErr
	}
	if s.Locked[key] {
		return false, nil
	}
	s.Locked[key] = true
	return true, nil
}

func (s *IdempotencyStoreStub) Remember(ctx context.Context, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Orders[key] = orderID
	return nil
}

func (s *IdempotencyStoreStub) Recall(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.Orders[key]
	return id, ok, nil
}

func (s *IdempotencyStoreStub) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Locked, key)
	s.Released = append(s.Released, key)
	return nil
}

// PublisherStub records published status events.
type PublisherStub struct {
	mu sync.Mutex

	Events []model.StatusEvent
	Err    error
}

func (p *PublisherStub) PublishStatusChanged(ctx context.Context, event model.StatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

// Published returns a copy of the recorded events.
func (p *PublisherStub) Published() []model.StatusEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.StatusEvent(nil), p.Events...)
}
