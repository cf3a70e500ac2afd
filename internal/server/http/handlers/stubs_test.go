package handlers

import (
	"context"

	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/usecase"
)

// facadeStub implements MarketFacade with overridable functions.
type facadeStub struct {
	AddFn      func(ctx context.Context, buyerID, productID string, qty int) (*model.CartLine, error)
	CartFn     func(ctx context.Context, buyerID string) ([]model.CartLine, error)
	ClearFn    func(ctx context.Context, buyerID string) error
	ValidateFn func(ctx context.Context, buyerID string) (usecase.ValidationResult, error)
	PlaceFn    func(ctx context.Context, req usecase.CheckoutRequest) (*usecase.PlacedOrder, error)
	OrderFn    func(ctx context.Context, orderID string) (*usecase.OrderDetails, error)
	OrdersFn   func(ctx context.Context, buyerID string) ([]model.Order, error)
	StatusFn   func(ctx context.Context, orderID string) (model.OrderStatus, error)
	CancelFn   func(ctx context.Context, orderID string) error
	UpdateFn   func(ctx context.Context, orderID string, status model.OrderStatus, extra usecase.StatusExtra) (*model.Order, error)
	RateFn     func(ctx context.Context, orderID string, score int, comment string) (*model.DriverRating, error)
	HealthErr  error
}

var _ MarketFacade = facadeStub{}

func (s facadeStub) AddToCart(ctx context.Context, buyerID, productID string, qty int) (*model.CartLine, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, buyerID, productID, qty)
	}
	return &model.CartLine{BuyerID: buyerID, ProductID: productID, Quantity: qty}, nil
}

func (s facadeStub) Cart(ctx context.Context, buyerID string) ([]model.CartLine, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, buyerID)
	}
	return nil, nil
}

func (s facadeStub) ClearCart(ctx context.Context, buyerID string) error {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, buyerID)
	}
	return nil
}

func (s facadeStub) ValidateCart(ctx context.Context, buyerID string) (usecase.ValidationResult, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, buyerID)
	}
	return usecase.ValidationResult{}, nil
}

func (s facadeStub) PlaceOrder(ctx context.Context, req usecase.CheckoutRequest) (*usecase.PlacedOrder, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, req)
	}
	return &usecase.PlacedOrder{Order: model.Order{ID: "o1", BuyerID: req.BuyerID, Status: model.OrderStatusPending}}, nil
}

func (s facadeStub) Order(ctx context.Context, orderID string) (*usecase.OrderDetails, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return &usecase.OrderDetails{Order: model.Order{ID: orderID}}, nil
}

func (s facadeStub) BuyerOrders(ctx context.Context, buyerID string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, buyerID)
	}
	return nil, nil
}

func (s facadeStub) OrderStatus(ctx context.Context, orderID string) (model.OrderStatus, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderID)
	}
	return model.OrderStatusPending, nil
}

func (s facadeStub) CancelOrder(ctx context.Context, orderID string) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID)
	}
	return nil
}

func (s facadeStub) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, extra usecase.StatusExtra) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, orderID, status, extra)
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

func (s facadeStub) RateDriver(ctx context.Context, orderID string, score int, comment string) (*model.DriverRating, error) {
	if s.RateFn != nil {
		return s.RateFn(ctx, orderID, score, comment)
	}
	return &model.DriverRating{ID: "r1", OrderID: orderID, Score: score, Comment: comment}, nil
}

func (s facadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}
