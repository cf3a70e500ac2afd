package handlers

import (
	"context"

	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/usecase"
)

// CartFacade describes cart operations required by handlers.
type CartFacade interface {
	AddToCart(ctx context.Context, buyerID, productID string, qty int) (*model.CartLine, error)
	Cart(ctx context.Context, buyerID string) ([]model.CartLine, error)
	ClearCart(ctx context.Context, buyerID string) error
	ValidateCart(ctx context.Context, buyerID string) (usecase.ValidationResult, error)
}

// OrderFacade encapsulates checkout and order reads exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, req usecase.CheckoutRequest) (*usecase.PlacedOrder, error)
	Order(ctx context.Context, orderID string) (*usecase.OrderDetails, error)
	BuyerOrders(ctx context.Context, buyerID string) ([]model.Order, error)
}

// StatusFacade provides lifecycle operations on placed orders.
type StatusFacade interface {
	OrderStatus(ctx context.Context, orderID string) (model.OrderStatus, error)
	CancelOrder(ctx context.Context, orderID string) error
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, extra usecase.StatusExtra) (*model.Order, error)
	RateDriver(ctx context.Context, orderID string, score int, comment string) (*model.DriverRating, error)
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	CartFacade
	OrderFacade
	StatusFacade
	HealthFacade
}
