package repository

import (
	"context"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// CartRepository manages buyer cart lines.
type CartRepository interface {
	ListByBuyer(ctx context.Context, buyerID string) ([]model.CartLine, error)
	Upsert(ctx context.Context, line *model.CartLine) error
	ClearByBuyer(ctx context.Context, buyerID string) error
}
