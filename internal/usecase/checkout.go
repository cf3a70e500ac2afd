package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/domain/repository"
)

const cartClearAttempts = 3

// CheckoutRequest is a buyer's request to turn cart lines into an order.
type CheckoutRequest struct {
	BuyerID       string
	Address       model.AddressSnapshot
	PaymentMethod model.PaymentMethod
	// Lines defaults to the buyer's stored cart when empty.
	Lines          []model.CartLine
	IdempotencyKey string
}

// CheckoutUseCase validates carts and places orders through the saga.
type CheckoutUseCase struct {
	carts     repository.CartRepository
	orders    repository.OrderRepository
	lines     repository.OrderLineRepository
	validator *InventoryValidator
	saga      *OrderSaga
	idem      IdempotencyStore
	logger    *slog.Logger
}

// CheckoutParams groups checkout dependencies for fx.
type CheckoutParams struct {
	fx.In

	Carts       repository.CartRepository
	Orders      repository.OrderRepository
	Lines       repository.OrderLineRepository
	Validator   *InventoryValidator
	Saga        *OrderSaga
	Idempotency IdempotencyStore `optional:"true"`
	Logger      *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(p CheckoutParams) *CheckoutUseCase {
	idem := p.Idempotency
	if idem == nil {
		idem = nopIdempotencyStore{}
	}
	return &CheckoutUseCase{
		carts:     p.Carts,
		orders:    p.Orders,
		lines:     p.Lines,
		validator: p.Validator,
		saga:      p.Saga,
		idem:      idem,
		logger:    p.Logger,
	}
}

// ValidateCart checks the buyer's stored cart against current stock.
func (u *CheckoutUseCase) ValidateCart(ctx context.Context, buyerID string) (ValidationResult, error) {
	lines, err := u.carts.ListByBuyer(ctx, buyerID)
	if err != nil {
		return ValidationResult{}, err
	}
	return u.validator.Validate(ctx, lines)
}

// PlaceOrder places an order and clears the buyer's cart once it is committed.
// A request repeating an earlier idempotency key gets the original confirmation.
func (u *CheckoutUseCase) PlaceOrder(ctx context.Context, req CheckoutRequest) (*PlacedOrder, error) {
	if err := ValidatePaymentMethod(req.PaymentMethod); err != nil {
		return nil, err
	}
	if err := ValidateAddress(req.Address); err != nil {
		return nil, err
	}

	lines := req.Lines
	if len(lines) == 0 {
		stored, err := u.carts.ListByBuyer(ctx, req.BuyerID)
		if err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		lines = stored
	}
	if len(lines) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}
	for i := range lines {
		lines[i].BuyerID = req.BuyerID
	}

	key := idempotencyKey(req.BuyerID, req.IdempotencyKey)
	if key != "" {
		if placed, ok := u.replay(ctx, key); ok {
			return placed, nil
		}
		locked, err := u.idem.TryLock(ctx, key)
		if err != nil {
			u.logger.Warn("idempotency lock unavailable", slog.String("buyer_id", req.BuyerID), slog.Any("error", err))
		} else if !locked {
			return nil, domainErrors.ErrDuplicateRequest
		}
	}

	draft := OrderDraft{BuyerID: req.BuyerID, Address: req.Address, PaymentMethod: req.PaymentMethod}
	placed, err := u.saga.Place(ctx, draft, lines)
	if placed == nil {
		if key != "" {
			if relErr := u.idem.Release(context.WithoutCancel(ctx), key); relErr != nil {
				u.logger.Warn("idempotency release failed", slog.String("buyer_id", req.BuyerID), slog.Any("error", relErr))
			}
		}
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	if key != "" {
		if remErr := u.idem.Remember(ctx, key, placed.Order.ID); remErr != nil {
			u.logger.Warn("idempotency remember failed", slog.String("order_id", placed.Order.ID), slog.Any("error", remErr))
		}
	}
	u.clearCart(ctx, req.BuyerID)

	return placed, err
}

func (u *CheckoutUseCase) replay(ctx context.Context, key string) (*PlacedOrder, bool) {
	orderID, ok, err := u.idem.Recall(ctx, key)
	if err != nil {
		u.logger.Warn("idempotency recall failed", slog.Any("error", err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		u.logger.Warn("remembered order unavailable", slog.String("order_id", orderID), slog.Any("error", err))
		return nil, false
	}
	lines, err := u.lines.ListByOrder(ctx, orderID)
	if err != nil {
		u.logger.Warn("remembered order lines unavailable", slog.String("order_id", orderID), slog.Any("error", err))
		return nil, false
	}
	return &PlacedOrder{Order: *order, Lines: lines, Replayed: true}, true
}

// clearCart retries a few times; the order stands even when the cart survives.
func (u *CheckoutUseCase) clearCart(ctx context.Context, buyerID string) {
	var err error
	for attempt := 1; attempt <= cartClearAttempts; attempt++ {
		if err = u.carts.ClearByBuyer(ctx, buyerID); err == nil {
			return
		}
	}
	u.logger.Warn("cart clear failed", slog.String("buyer_id", buyerID), slog.Int("attempts", cartClearAttempts), slog.Any("error", err))
}

func idempotencyKey(buyerID, key string) string {
	if key == "" {
		return ""
	}
	return buyerID + ":" + key
}
