package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/polkiloo/ikanmart/internal/config"
	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/domain/repository"
	"github.com/polkiloo/ikanmart/internal/metrics"
	"github.com/polkiloo/ikanmart/internal/worker"
)

// Step names one stage of order placement.
type Step string

const (
	StepValidate       Step = "validate"
	StepCreateOrder    Step = "create_order"
	StepCreateLines    Step = "create_lines"
	StepCompensate     Step = "compensate"
	StepDecrementStock Step = "decrement_stock"
)

// StepStatus is the outcome of a recorded step.
type StepStatus string

const (
	StepOK     StepStatus = "ok"
	StepFailed StepStatus = "failed"
)

// StepRecord is one entry of the saga step log.
type StepRecord struct {
	Step      Step
	Status    StepStatus
	ProductID string
	Err       error
	At        time.Time
}

// StepLog collects step records; stock jobs append to it concurrently.
type StepLog struct {
	mu      sync.Mutex
	now     func() time.Time
	records []StepRecord
}

func newStepLog(now func() time.Time) *StepLog {
	return &StepLog{now: now}
}

func (l *StepLog) record(step Step, productID string, err error) {
	status := StepOK
	if err != nil {
		status = StepFailed
	}
	l.mu.Lock()
	l.records = append(l.records, StepRecord{Step: step, Status: status, ProductID: productID, Err: err, At: l.now()})
	l.mu.Unlock()
}

// Records returns a copy of the log in append order.
func (l *StepLog) Records() []StepRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]StepRecord(nil), l.records...)
}

// Failed returns the failed records of step.
func (l *StepLog) Failed(step Step) []StepRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []StepRecord
	for _, r := range l.records {
		if r.Step == step && r.Status == StepFailed {
			out = append(out, r)
		}
	}
	return out
}

// OrderDraft carries the buyer supplied part of a new order.
type OrderDraft struct {
	BuyerID       string
	Address       model.AddressSnapshot
	PaymentMethod model.PaymentMethod
}

// StockFailure is a decrement that did not apply after the order was placed.
// Quantity counts only the units still on the ledger.
type StockFailure struct {
	ProductID string
	Quantity  int
	Err       error
}

// PlacedOrder is the confirmation returned for a committed order.
type PlacedOrder struct {
	Order         model.Order
	Lines         []model.OrderLine
	StockFailures []StockFailure
	Steps         []StepRecord
	// Replayed is set when the confirmation was served for a repeated request.
	Replayed bool
}

// OrderSaga places orders across independent order, line and product writes.
type OrderSaga struct {
	validator *InventoryValidator
	ledger    *StockLedger
	orders    repository.OrderRepository
	lines     repository.OrderLineRepository
	fanout    StockFanout
	policy    config.SagaPolicy
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// OrderSagaParams groups saga dependencies for fx.
type OrderSagaParams struct {
	fx.In

	Validator *InventoryValidator
	Ledger    *StockLedger
	Orders    repository.OrderRepository
	Lines     repository.OrderLineRepository
	Fanout    StockFanout `optional:"true"`
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOrderSaga constructs OrderSaga. Without a fanout, stock jobs run inline.
func NewOrderSaga(p OrderSagaParams) *OrderSaga {
	fanout := p.Fanout
	if fanout == nil {
		fanout = inlineFanout{}
	}
	policy := p.Config.SagaPolicy
	if policy == "" {
		policy = config.SagaPolicyBestEffort
	}
	return &OrderSaga{
		validator: p.Validator,
		ledger:    p.Ledger,
		orders:    p.Orders,
		lines:     p.Lines,
		fanout:    fanout,
		policy:    policy,
		logger:    p.Logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Place runs the placement steps in order: validate, create the header,
// create the lines (deleting the header if one fails), then decrement stock.
// Once the header is committed the caller's cancellation no longer applies.
//
// Stock failures never undo a placed order. Under the strict policy Place
// returns the placed order together with an error wrapping
// ErrStockMutationFailed.
func (s *OrderSaga) Place(ctx context.Context, draft OrderDraft, cart []model.CartLine) (*PlacedOrder, error) {
	steps := newStepLog(s.now)

	validation, err := s.validator.Validate(ctx, cart)
	if err == nil {
		err = validation.Err()
	}
	if err == nil {
		err = singleSeller(cart, validation.Products)
	}
	steps.record(StepValidate, "", err)
	if err != nil {
		metrics.SagaFailures.WithLabelValues(string(StepValidate)).Inc()
		return nil, err
	}

	order, lines := s.buildOrder(draft, cart, validation.Products)
	logger := s.logger.With(slog.String("order_id", order.ID), slog.String("buyer_id", order.BuyerID))

	if err := s.orders.Create(ctx, &order); err != nil {
		steps.record(StepCreateOrder, "", err)
		metrics.SagaFailures.WithLabelValues(string(StepCreateOrder)).Inc()
		logger.Warn("order header create failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrCreateFailed, err)
	}
	steps.record(StepCreateOrder, "", nil)

	ctx = context.WithoutCancel(ctx)

	for i := range lines {
		if err := s.lines.Create(ctx, &lines[i]); err != nil {
			steps.record(StepCreateLines, lines[i].ProductID, err)
			metrics.SagaFailures.WithLabelValues(string(StepCreateLines)).Inc()
			logger.Warn("order line create failed, compensating",
				slog.String("product_id", lines[i].ProductID),
				slog.Int("created_lines", i),
				slog.Any("error", err),
			)
			s.compensate(ctx, logger, order.ID, steps)
			return nil, fmt.Errorf("%w: %w", domainErrors.ErrPartialCreateFailed, err)
		}
	}
	steps.record(StepCreateLines, "", nil)

	failures := s.decrementStock(ctx, logger, lines, steps)

	placed := &PlacedOrder{
		Order:         order,
		Lines:         lines,
		StockFailures: failures,
		Steps:         steps.Records(),
	}
	metrics.OrdersPlaced.WithLabelValues(string(s.policy)).Inc()
	logger.Info("order placed",
		slog.Int64("total_amount", order.TotalAmount),
		slog.Int("lines", len(lines)),
		slog.Int("stock_failures", len(failures)),
	)

	if len(failures) > 0 && s.policy == config.SagaPolicyStrict {
		return placed, fmt.Errorf("%w: %d of %d products not decremented", domainErrors.ErrStockMutationFailed, len(failures), len(validation.Products))
	}
	return placed, nil
}

// buildOrder prices every line and picks the seller from the product
// snapshot, never from the submitted lines.
func (s *OrderSaga) buildOrder(draft OrderDraft, cart []model.CartLine, products map[string]*model.Product) (model.Order, []model.OrderLine) {
	orderID := s.newID()
	lines := make([]model.OrderLine, 0, len(cart))
	for _, item := range cart {
		product := products[item.ProductID]
		lines = append(lines, model.OrderLine{
			ID:          s.newID(),
			OrderID:     orderID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Unit:        product.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			LineTotal:   int64(item.Quantity) * product.Price,
		})
	}

	now := s.now()
	order := model.Order{
		ID:              orderID,
		BuyerID:         draft.BuyerID,
		SellerID:        products[cart[0].ProductID].SellerID,
		BuyerName:       draft.Address.RecipientName,
		BuyerPhone:      draft.Address.Phone,
		DeliveryAddress: draft.Address.Address,
		DeliveryNotes:   draft.Address.Notes,
		PaymentMethod:   draft.PaymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		TotalAmount:     model.SumLineTotals(lines),
		Status:          model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return order, lines
}

// compensate deletes the header once. A failed delete leaves an orphaned
// pending order without lines.
func (s *OrderSaga) compensate(ctx context.Context, logger *slog.Logger, orderID string, steps *StepLog) {
	err := s.orders.Delete(ctx, orderID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		err = nil
	}
	steps.record(StepCompensate, "", err)
	if err != nil {
		metrics.Compensations.WithLabelValues("failed").Inc()
		logger.Error("compensation failed, orphaned pending order left behind", slog.Any("error", err))
		return
	}
	metrics.Compensations.WithLabelValues("deleted").Inc()
	logger.Info("order header deleted by compensation")
}

func (s *OrderSaga) decrementStock(ctx context.Context, logger *slog.Logger, lines []model.OrderLine, steps *StepLog) []StockFailure {
	type productWork struct {
		productID  string
		quantities []int
		applied    int
	}

	var work []*productWork
	byProduct := make(map[string]*productWork)
	for _, line := range lines {
		w, ok := byProduct[line.ProductID]
		if !ok {
			w = &productWork{productID: line.ProductID}
			byProduct[line.ProductID] = w
			work = append(work, w)
		}
		w.quantities = append(w.quantities, line.Quantity)
	}

	jobs := make([]worker.Job, len(work))
	for i, w := range work {
		jobs[i] = worker.Job{
			Key: w.productID,
			Run: func(ctx context.Context) error {
				for _, qty := range w.quantities {
					if _, err := s.ledger.Decrement(ctx, w.productID, qty); err != nil {
						return err
					}
					w.applied += qty
				}
				return nil
			},
		}
	}

	var failures []StockFailure
	for i, err := range s.fanout.Run(ctx, jobs) {
		w := work[i]
		steps.record(StepDecrementStock, w.productID, err)
		if err == nil {
			continue
		}
		// Only the units that never left the ledger.
		qty := -w.applied
		for _, q := range w.quantities {
			qty += q
		}
		failures = append(failures, StockFailure{ProductID: w.productID, Quantity: qty, Err: err})
		metrics.StockMutationFailures.WithLabelValues("decrement").Inc()
		logger.Warn("stock decrement failed",
			slog.String("product_id", w.productID),
			slog.Int("quantity", qty),
			slog.Bool("transient", domainErrors.IsTransient(err)),
			slog.Any("error", fmt.Errorf("%w: %w", domainErrors.ErrStockMutationFailed, err)),
		)
	}
	return failures
}

// singleSeller checks the owning seller of every product, ignoring the seller
// carried on the lines.
func singleSeller(cart []model.CartLine, products map[string]*model.Product) error {
	seller := products[cart[0].ProductID].SellerID
	for _, line := range cart[1:] {
		if products[line.ProductID].SellerID != seller {
			return domainErrors.ErrMixedSellers
		}
	}
	return nil
}
