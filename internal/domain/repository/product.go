package repository

import (
	"context"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// ProductRepository exposes product reads and versioned stock writes.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*model.Product, error)
	// CompareAndSetStock stores stock (and available = stock > 0) if the product
	// is still at version. It reports false on a version mismatch.
	CompareAndSetStock(ctx context.Context, id string, version int64, stock int) (bool, error)
}
