package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/domain/repository"
)

const defaultSnapshotReads = 8

// ValidationResult is the outcome of an inventory check. It is Valid when
// Shortages is empty. Products holds the snapshot every comparison used.
type ValidationResult struct {
	Shortages []domainErrors.StockShortage
	Products  map[string]*model.Product
}

// Valid reports whether every requested quantity fits the read stock.
func (r ValidationResult) Valid() bool {
	return len(r.Shortages) == 0
}

// Err returns the itemized shortage error, or nil for a valid result.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &domainErrors.InsufficientStockError{Items: r.Shortages}
}

// InventoryValidator compares requested quantities with a stock snapshot.
// The check is advisory: stock can still move between the read and any write.
type InventoryValidator struct {
	products    repository.ProductRepository
	concurrency int
}

// NewInventoryValidator constructs InventoryValidator.
func NewInventoryValidator(products repository.ProductRepository) *InventoryValidator {
	return &InventoryValidator{products: products, concurrency: defaultSnapshotReads}
}

// Validate reads every referenced product once and reports each product whose
// summed requested quantity exceeds its stock. Unknown products are shortages
// with nothing available. Store failures are returned as errors.
func (v *InventoryValidator) Validate(ctx context.Context, lines []model.CartLine) (ValidationResult, error) {
	if len(lines) == 0 {
		return ValidationResult{}, domainErrors.ErrEmptyCart
	}

	requested := make(map[string]int, len(lines))
	order := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return ValidationResult{}, fmt.Errorf("%w: product %s quantity %d", domainErrors.ErrInvalidQuantity, line.ProductID, line.Quantity)
		}
		if _, seen := requested[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
	}

	snapshot, err := v.snapshot(ctx, order)
	if err != nil {
		return ValidationResult{}, err
	}

	result := ValidationResult{Products: snapshot}
	for _, id := range order {
		want := requested[id]
		product, ok := snapshot[id]
		if !ok {
			result.Shortages = append(result.Shortages, domainErrors.StockShortage{ProductID: id, Requested: want})
			continue
		}
		if want > product.Stock {
			result.Shortages = append(result.Shortages, domainErrors.StockShortage{
				ProductID:   id,
				ProductName: product.Name,
				Requested:   want,
				Available:   product.Stock,
			})
		}
	}
	return result, nil
}

func (v *InventoryValidator) snapshot(ctx context.Context, ids []string) (map[string]*model.Product, error) {
	var (
		mu       sync.Mutex
		products = make(map[string]*model.Product, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			product, err := v.products.GetByID(gctx, id)
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read product %s: %w", id, err)
			}
			mu.Lock()
			products[id] = product
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return products, nil
}
