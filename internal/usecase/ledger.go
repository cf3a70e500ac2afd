package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/polkiloo/ikanmart/internal/config"
	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/domain/repository"
)

// StockLedger applies floor-at-zero stock mutations to products.
//
// Every mutation reads the product and writes the new stock conditionally on
// the version it read. Writers in this process additionally queue per product,
// so version conflicts only come from other processes.
type StockLedger struct {
	products    repository.ProductRepository
	maxAttempts int
	locks       *keyedMutex
	logger      *slog.Logger
}

// NewStockLedger constructs StockLedger.
func NewStockLedger(products repository.ProductRepository, cfg *config.Config, logger *slog.Logger) *StockLedger {
	attempts := cfg.LedgerMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &StockLedger{
		products:    products,
		maxAttempts: attempts,
		locks:       newKeyedMutex(),
		logger:      logger,
	}
}

// Decrement lowers stock by qty, clamping at zero. Shortages are not an error here.
func (l *StockLedger) Decrement(ctx context.Context, productID string, qty int) (*model.Product, error) {
	if qty <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	return l.apply(ctx, productID, -qty)
}

// Restore returns qty units to stock.
func (l *StockLedger) Restore(ctx context.Context, productID string, qty int) (*model.Product, error) {
	if qty <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	return l.apply(ctx, productID, qty)
}

func (l *StockLedger) apply(ctx context.Context, productID string, delta int) (*model.Product, error) {
	unlock := l.locks.Lock(productID)
	defer unlock()

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		product, err := l.products.GetByID(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("read product %s: %w", productID, err)
		}

		next := model.NextStock(product.Stock, delta)
		ok, err := l.products.CompareAndSetStock(ctx, productID, product.Version, next)
		if err != nil {
			return nil, fmt.Errorf("write product %s: %w", productID, err)
		}
		if ok {
			product.Stock = next
			product.Available = next > 0
			product.Version++
			return product, nil
		}

		l.logger.Debug("stock version conflict",
			slog.String("product_id", productID),
			slog.Int("attempt", attempt),
			slog.Int64("version", product.Version),
		)
	}

	return nil, domainErrors.Transient(fmt.Errorf("%w: product %s after %d attempts", domainErrors.ErrStockConflict, productID, l.maxAttempts))
}

// keyedMutex hands out one mutex per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

// Lock blocks until key is free and returns the matching unlock.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
