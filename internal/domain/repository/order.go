package repository

import (
	"context"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// OrderRepository describes persistence operations with order headers.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error)
	Delete(ctx context.Context, id string) error
	// TransitionStatus writes status=to only while the stored status still equals from.
	// It reports false when another writer moved the order first.
	TransitionStatus(ctx context.Context, id string, from, to model.OrderStatus, patch model.OrderPatch) (bool, error)
	// MarkDriverRated flips driver_rated once; false means it was already set.
	MarkDriverRated(ctx context.Context, id string) (bool, error)
}

// OrderLineRepository stores immutable order line items.
type OrderLineRepository interface {
	Create(ctx context.Context, line *model.OrderLine) error
	ListByOrder(ctx context.Context, orderID string) ([]model.OrderLine, error)
}
