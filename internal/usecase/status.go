package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/domain/repository"
	"github.com/polkiloo/ikanmart/internal/metrics"
)

// StatusExtra carries optional data for a seller-side transition.
type StatusExtra struct {
	DriverID string
}

// OrderDetails is an order header with its lines.
type OrderDetails struct {
	Order model.Order
	Lines []model.OrderLine
}

// OrderStatusUseCase drives the order lifecycle and its side effects.
type OrderStatusUseCase struct {
	orders  repository.OrderRepository
	lines   repository.OrderLineRepository
	drivers repository.DriverRepository
	ratings repository.RatingRepository
	ledger  *StockLedger
	cache   StatusCache
	events  EventPublisher
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// OrderStatusParams groups status dependencies for fx.
type OrderStatusParams struct {
	fx.In

	Orders  repository.OrderRepository
	Lines   repository.OrderLineRepository
	Drivers repository.DriverRepository
	Ratings repository.RatingRepository
	Ledger  *StockLedger
	Cache   StatusCache    `optional:"true"`
	Events  EventPublisher `optional:"true"`
	Logger  *slog.Logger
}

// NewOrderStatusUseCase constructs OrderStatusUseCase.
func NewOrderStatusUseCase(p OrderStatusParams) *OrderStatusUseCase {
	u := &OrderStatusUseCase{
		orders:  p.Orders,
		lines:   p.Lines,
		drivers: p.Drivers,
		ratings: p.Ratings,
		ledger:  p.Ledger,
		cache:   p.Cache,
		events:  p.Events,
		logger:  p.Logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if u.cache == nil {
		u.cache = nopStatusCache{}
	}
	if u.events == nil {
		u.events = nopPublisher{}
	}
	return u
}

// Get returns the order with its lines.
func (u *OrderStatusUseCase) Get(ctx context.Context, orderID string) (*OrderDetails, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	lines, err := u.lines.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetails{Order: *order, Lines: lines}, nil
}

// ListByBuyer returns the buyer's orders, newest first.
func (u *OrderStatusUseCase) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	return u.orders.ListByBuyer(ctx, buyerID)
}

// Status returns the current status, preferring the cache.
func (u *OrderStatusUseCase) Status(ctx context.Context, orderID string) (model.OrderStatus, error) {
	status, ok, err := u.cache.GetStatus(ctx, orderID)
	if err != nil {
		u.logger.Warn("status cache read failed", slog.String("order_id", orderID), slog.Any("error", err))
	}
	if ok {
		return status, nil
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	// A transition may commit between the read and the fill; only fill an
	// empty key so the newer status written by the transition wins.
	if _, err := u.cache.SetStatusIfAbsent(ctx, orderID, order.Status); err != nil {
		u.logger.Warn("status cache fill failed", slog.String("order_id", orderID), slog.Any("error", err))
	}
	return order.Status, nil
}

// Cancel moves a pending order to cancelled and returns its stock.
//
// The status write comes first so two racing cancels cannot both restore.
// Restore failures are logged and do not undo the cancellation.
func (u *OrderStatusUseCase) Cancel(ctx context.Context, orderID string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !model.CanTransition(order.Status, model.OrderStatusCancelled) {
		return invalidTransition(order.Status, model.OrderStatusCancelled)
	}

	lines, err := u.lines.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	// The conditional status write precedes the restore, reversing
	// restore-then-update, so only one of two racing cancels restores stock.
	ok, err := u.orders.TransitionStatus(ctx, orderID, order.Status, model.OrderStatusCancelled, model.OrderPatch{})
	if err != nil {
		return err
	}
	if !ok {
		return u.lostRace(orderID, order.Status, model.OrderStatusCancelled)
	}

	ctx = context.WithoutCancel(ctx)
	for _, line := range lines {
		if _, err := u.ledger.Restore(ctx, line.ProductID, line.Quantity); err != nil {
			metrics.StockMutationFailures.WithLabelValues("restore").Inc()
			u.logger.Warn("stock restore failed",
				slog.String("order_id", orderID),
				slog.String("product_id", line.ProductID),
				slog.Int("quantity", line.Quantity),
				slog.Any("error", fmt.Errorf("%w: %w", domainErrors.ErrStockMutationFailed, err)),
			)
		}
	}

	u.afterTransition(ctx, order, model.OrderStatusCancelled)
	return nil
}

// UpdateStatus applies a seller-side transition. Cancellation is not
// available here. Assigning a driver is only possible on confirmed → processing.
func (u *OrderStatusUseCase) UpdateStatus(ctx context.Context, orderID string, to model.OrderStatus, extra StatusExtra) (*model.Order, error) {
	if !to.Valid() || to == model.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: %q is not a seller transition", domainErrors.ErrInvalidTransition, to)
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if !model.CanTransition(from, to) {
		return nil, invalidTransition(from, to)
	}

	var patch model.OrderPatch
	if extra.DriverID != "" {
		if from != model.OrderStatusConfirmed || to != model.OrderStatusProcessing {
			return nil, fmt.Errorf("%w: drivers are assigned when processing starts", domainErrors.ErrInvalidDriver)
		}
		if err := u.checkDriver(ctx, order, extra.DriverID); err != nil {
			return nil, err
		}
		driverID := extra.DriverID
		patch.DriverID = &driverID
	}
	if to == model.OrderStatusDelivered {
		deliveredAt := u.now()
		patch.DeliveredAt = &deliveredAt
		if order.PaymentMethod == model.PaymentCashOnDelivery {
			paid := model.PaymentStatusPaid
			patch.PaymentStatus = &paid
		}
	}

	ok, err := u.orders.TransitionStatus(ctx, orderID, from, to, patch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, u.lostRace(orderID, from, to)
	}

	updated := *order
	updated.Status = to
	updated.UpdatedAt = u.now()
	if patch.DriverID != nil {
		updated.DriverID = patch.DriverID
	}
	if patch.DeliveredAt != nil {
		updated.DeliveredAt = patch.DeliveredAt
	}
	if patch.PaymentStatus != nil {
		updated.PaymentStatus = *patch.PaymentStatus
	}

	u.afterTransition(context.WithoutCancel(ctx), order, to)
	return &updated, nil
}

// checkDriver requires a driver of the order's seller who is marked
// available. Assignment leaves the availability flag as it is.
func (u *OrderStatusUseCase) checkDriver(ctx context.Context, order *model.Order, driverID string) error {
	driver, err := u.drivers.GetByID(ctx, driverID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return fmt.Errorf("%w: driver %s not found", domainErrors.ErrInvalidDriver, driverID)
	}
	if err != nil {
		return err
	}
	if driver.SellerID != order.SellerID {
		return fmt.Errorf("%w: driver %s works for another seller", domainErrors.ErrInvalidDriver, driverID)
	}
	if !driver.Available {
		return fmt.Errorf("%w: driver %s is not available", domainErrors.ErrInvalidDriver, driverID)
	}
	return nil
}

// RateDriver records the buyer's one rating for the order's driver and adds
// it to the driver's running aggregate.
func (u *OrderStatusUseCase) RateDriver(ctx context.Context, orderID string, score int, comment string) (*model.DriverRating, error) {
	if err := ValidateRatingScore(score); err != nil {
		return nil, err
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Rateable() {
		return nil, fmt.Errorf("%w: cannot rate a %s order", domainErrors.ErrInvalidTransition, order.Status)
	}
	if order.DriverID == nil {
		return nil, fmt.Errorf("%w: order has no driver", domainErrors.ErrInvalidRating)
	}
	if order.DriverRated {
		return nil, domainErrors.ErrAlreadyRated
	}

	rating := &model.DriverRating{
		ID:        u.newID(),
		DriverID:  *order.DriverID,
		OrderID:   order.ID,
		BuyerID:   order.BuyerID,
		Score:     score,
		Comment:   comment,
		CreatedAt: u.now(),
	}
	if err := u.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	logger := u.logger.With(slog.String("order_id", order.ID), slog.String("driver_id", rating.DriverID))
	if marked, err := u.orders.MarkDriverRated(ctx, order.ID); err != nil {
		logger.Error("driver rated flag not stored", slog.Any("error", err))
	} else if !marked {
		logger.Warn("driver rated flag was already set")
	}
	if err := u.drivers.ApplyRating(ctx, rating.DriverID, score); err != nil {
		logger.Error("driver rating aggregate not updated", slog.Int("score", score), slog.Any("error", err))
	}
	return rating, nil
}

func (u *OrderStatusUseCase) afterTransition(ctx context.Context, order *model.Order, to model.OrderStatus) {
	metrics.StatusTransitions.WithLabelValues(string(order.Status), string(to)).Inc()
	logger := u.logger.With(slog.String("order_id", order.ID))
	logger.Info("order status changed", slog.String("from", string(order.Status)), slog.String("to", string(to)))

	if err := u.cache.SetStatus(ctx, order.ID, to); err != nil {
		// Drop the old entry so readers fall back to the store.
		logger.Warn("status cache write failed, evicting", slog.Any("error", err))
		if err := u.cache.DeleteStatus(ctx, order.ID); err != nil {
			logger.Error("stale status left in cache", slog.Any("error", err))
		}
	}

	event := model.StatusEvent{
		EventID:    u.newID(),
		OrderID:    order.ID,
		SellerID:   order.SellerID,
		From:       order.Status,
		To:         to,
		OccurredAt: u.now(),
	}
	if err := u.events.PublishStatusChanged(ctx, event); err != nil {
		logger.Warn("status event not published", slog.Any("error", err))
	}
}

func (u *OrderStatusUseCase) lostRace(orderID string, from, to model.OrderStatus) error {
	u.logger.Warn("order status changed concurrently",
		slog.String("order_id", orderID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	return fmt.Errorf("%w: order left %s before %s was applied", domainErrors.ErrInvalidTransition, from, to)
}

func invalidTransition(from, to model.OrderStatus) error {
	return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, from, to)
}
