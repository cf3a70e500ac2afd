package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/usecase"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MarketFacade exposes the marketplace use cases to the transport layer.
type MarketFacade struct {
	cart     *usecase.CartUseCase
	checkout *usecase.CheckoutUseCase
	status   *usecase.OrderStatusUseCase
	health   HealthChecker
}

// MarketFacadeParams groups facade dependencies for fx.
type MarketFacadeParams struct {
	fx.In

	Cart     *usecase.CartUseCase
	Checkout *usecase.CheckoutUseCase
	Status   *usecase.OrderStatusUseCase
	Health   HealthChecker
}

func NewMarketFacade(p MarketFacadeParams) *MarketFacade {
	return &MarketFacade{cart: p.Cart, checkout: p.Checkout, status: p.Status, health: p.Health}
}

func (f *MarketFacade) AddToCart(ctx context.Context, buyerID, productID string, qty int) (*model.CartLine, error) {
	return f.cart.Add(ctx, buyerID, productID, qty)
}

func (f *MarketFacade) Cart(ctx context.Context, buyerID string) ([]model.CartLine, error) {
	return f.cart.List(ctx, buyerID)
}

func (f *MarketFacade) ClearCart(ctx context.Context, buyerID string) error {
	return f.cart.Clear(ctx, buyerID)
}

func (f *MarketFacade) ValidateCart(ctx context.Context, buyerID string) (usecase.ValidationResult, error) {
	return f.checkout.ValidateCart(ctx, buyerID)
}

func (f *MarketFacade) PlaceOrder(ctx context.Context, req usecase.CheckoutRequest) (*usecase.PlacedOrder, error) {
	return f.checkout.PlaceOrder(ctx, req)
}

func (f *MarketFacade) Order(ctx context.Context, orderID string) (*usecase.OrderDetails, error) {
	return f.status.Get(ctx, orderID)
}

func (f *MarketFacade) BuyerOrders(ctx context.Context, buyerID string) ([]model.Order, error) {
	return f.status.ListByBuyer(ctx, buyerID)
}

func (f *MarketFacade) OrderStatus(ctx context.Context, orderID string) (model.OrderStatus, error) {
	return f.status.Status(ctx, orderID)
}

func (f *MarketFacade) CancelOrder(ctx context.Context, orderID string) error {
	return f.status.Cancel(ctx, orderID)
}

func (f *MarketFacade) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, extra usecase.StatusExtra) (*model.Order, error) {
	return f.status.UpdateStatus(ctx, orderID, status, extra)
}

func (f *MarketFacade) RateDriver(ctx context.Context, orderID string, score int, comment string) (*model.DriverRating, error) {
	return f.status.RateDriver(ctx, orderID, score, comment)
}

// HealthCheck reports the database reachability.
func (f *MarketFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
