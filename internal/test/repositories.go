package test

import (
	"context"
	"sort"
	"sync"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// ProductRepositoryStub keeps products in memory and honours versioned writes.
type ProductRepositoryStub struct {
	mu sync.Mutex

	Products map[string]*model.Product
	// GetErr and SetErr inject failures per product id.
	GetErr map[string]error
	SetErr map[string]error
	// SetErrAfter holds SetErr back until that many writes for the product
	// have been stored.
	SetErrAfter map[string]int
	// Conflicts makes the next N writes for a product report a version mismatch.
	Conflicts map[string]int
	Gets      int
	Sets      int

	stored map[string]int
}

// NewProductRepositoryStub seeds the stub with products.
func NewProductRepositoryStub(products ...model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{
		Products:    make(map[string]*model.Product),
		GetErr:      make(map[string]error),
		SetErr:      make(map[string]error),
		SetErrAfter: make(map[string]int),
		Conflicts:   make(map[string]int),
		stored:      make(map[string]int),
	}
	for i := range products {
		p := products[i]
		p.Available = p.Stock > 0
		s.Products[p.ID] = &p
	}
	return s
}

// GetByID returns a copy of the stored product.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gets++
	if err := s.GetErr[id]; err != nil {
		return nil, err
	}
	p, ok := s.Products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// CompareAndSetStock stores stock when the version still matches.
func (s *ProductRepositoryStub) CompareAndSetStock(ctx context.Context, id string, version int64, stock int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sets++
	if err := s.SetErr[id]; err != nil && s.stored[id] >= s.SetErrAfter[id] {
		return false, err
	}
	p, ok := s.Products[id]
	if !ok {
		return false, domainErrors.ErrNotFound
	}
	if s.Conflicts[id] > 0 {
		s.Conflicts[id]--
		p.Version++
		return false, nil
	}
	if p.Version != version {
		return false, nil
	}
	p.Stock = stock
	p.Available = stock > 0
	p.Version++
	s.stored[id]++
	return true, nil
}

// Stock reports the current stock of a product.
func (s *ProductRepositoryStub) Stock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Products[id]; ok {
		return p.Stock
	}
	return -1
}

// Product returns a copy of the stored product.
func (s *ProductRepositoryStub) Product(id string) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Products[id]; ok {
		return *p
	}
	return model.Product{}
}

// FailSet injects a write failure for a product.
func (s *ProductRepositoryStub) FailSet(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetErr[id] = err
}

// CartRepositoryStub stores cart lines per buyer.
type CartRepositoryStub struct {
	mu sync.Mutex

	Lines     map[string][]model.CartLine
	ListErr   error
	UpsertErr error
	// ClearErrs is consumed one entry per ClearByBuyer call.
	ClearErrs  []error
	ClearCalls int
}

// NewCartRepositoryStub constructs an empty cart store.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{Lines: make(map[string][]model.CartLine)}
}

func (s *CartRepositoryStub) ListByBuyer(ctx context.Context, buyerID string) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return append([]model.CartLine(nil), s.Lines[buyerID]...), nil
}

func (s *CartRepositoryStub) Upsert(ctx context.Context, line *model.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpsertErr != nil {
		return s.UpsertErr
	}
	lines := s.Lines[line.BuyerID]
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			line.AddedAt = lines[i].AddedAt
			lines[i] = *line
			return nil
		}
	}
	s.Lines[line.BuyerID] = append(lines, *line)
	return nil
}

func (s *CartRepositoryStub) ClearByBuyer(ctx context.Context, buyerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClearCalls++
	if len(s.ClearErrs) > 0 {
		err := s.ClearErrs[0]
		s.ClearErrs = s.ClearErrs[1:]
		if err != nil {
			return err
		}
	}
	delete(s.Lines, buyerID)
	return nil
}

// OrderRepositoryStub keeps order headers in memory.
type OrderRepositoryStub struct {
	mu sync.Mutex

	Orders        map[string]*model.Order
	CreateErr     error
	GetErr        error
	DeleteErr     error
	TransitionErr error
	// BeforeTransition runs before the conditional write, letting tests race it.
	BeforeTransition func(order *model.Order)
	Deleted          []string
}

// NewOrderRepositoryStub constructs an empty order store.
func NewOrderRepositoryStub(orders ...model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
	for i := range orders {
		o := orders[i]
		s.Orders[o.ID] = &o
	}
	return s
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if _, exists := s.Orders[order.ID]; exists {
		return domainErrors.Rejected(domainErrors.ErrAlreadyExists)
	}
	cp := *order
	s.Orders[order.ID] = &cp
	return nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *OrderRepositoryStub) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	var result []model.Order
	for _, o := range s.Orders {
		if o.BuyerID == buyerID {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *OrderRepositoryStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	if _, ok := s.Orders[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Orders, id)
	s.Deleted = append(s.Deleted, id)
	return nil
}

func (s *OrderRepositoryStub) TransitionStatus(ctx context.Context, id string, from, to model.OrderStatus, patch model.OrderPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.TransitionErr != nil {
		return false, s.TransitionErr
	}
	o, ok := s.Orders[id]
	if !ok {
		return false, nil
	}
	if s.BeforeTransition != nil {
		s.BeforeTransition(o)
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	if patch.DriverID != nil {
		o.DriverID = patch.DriverID
	}
	if patch.DeliveredAt != nil {
		o.DeliveredAt = patch.DeliveredAt
	}
	if patch.PaymentStatus != nil {
		o.PaymentStatus = *patch.PaymentStatus
	}
	return true, nil
}

func (s *OrderRepositoryStub) MarkDriverRated(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return false, domainErrors.ErrNotFound
	}
	if o.DriverRated {
		return false, nil
	}
	o.DriverRated = true
	return true, nil
}

// Has reports whether an order header exists.
func (s *OrderRepositoryStub) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Orders[id]
	return ok
}

// Count returns the number of stored headers.
func (s *OrderRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Orders)
}

// OrderLineRepositoryStub stores order lines per order.
type OrderLineRepositoryStub struct {
	mu sync.Mutex

	Lines map[string][]model.OrderLine
	// FailOn makes the Nth Create call (1-based) fail with CreateErr.
	FailOn    int
	CreateErr error
	ListErr   error
	calls     int
}

// NewOrderLineRepositoryStub constructs an empty line store.
func NewOrderLineRepositoryStub() *OrderLineRepositoryStub {
	return &OrderLineRepositoryStub{Lines: make(map[string][]model.OrderLine)}
}

func (s *OrderLineRepositoryStub) Create(ctx context.Context, line *model.OrderLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.FailOn > 0 && s.calls == s.FailOn {
		return s.CreateErr
	}
	s.Lines[line.OrderID] = append(s.Lines[line.OrderID], *line)
	return nil
}

func (s *OrderLineRepositoryStub) ListByOrder(ctx context.Context, orderID string) ([]model.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return append([]model.OrderLine(nil), s.Lines[orderID]...), nil
}

// Count returns the number of lines stored for an order.
func (s *OrderLineRepositoryStub) Count(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Lines[orderID])
}

// DriverRepositoryStub keeps drivers in memory.
type DriverRepositoryStub struct {
	mu sync.Mutex

	Drivers  map[string]*model.Driver
	ApplyErr error
}

// NewDriverRepositoryStub seeds the stub with drivers.
func NewDriverRepositoryStub(drivers ...model.Driver) *DriverRepositoryStub {
	s := &DriverRepositoryStub{Drivers: make(map[string]*model.Driver)}
	for i := range drivers {
		d := drivers[i]
		s.Drivers[d.ID] = &d
	}
	return s
}

func (s *DriverRepositoryStub) GetByID(ctx context.Context, id string) (*model.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.Drivers[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *DriverRepositoryStub) ApplyRating(ctx context.Context, driverID string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ApplyErr != nil {
		return s.ApplyErr
	}
	d, ok := s.Drivers[driverID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	d.RatingSum += int64(score)
	d.RatingCount++
	return nil
}

// Driver returns a copy of the stored driver.
func (s *DriverRepositoryStub) Driver(id string) model.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.Drivers[id]; ok {
		return *d
	}
	return model.Driver{}
}

// RatingRepositoryStub enforces one rating per order.
type RatingRepositoryStub struct {
	mu sync.Mutex

	Ratings map[string]model.DriverRating
	Err     error
}

// NewRatingRepositoryStub constructs an empty rating store.
func NewRatingRepositoryStub() *RatingRepositoryStub {
	return &RatingRepositoryStub{Ratings: make(map[string]model.DriverRating)}
}

func (s *RatingRepositoryStub) Create(ctx context.Context, rating *model.DriverRating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.Ratings[rating.OrderID]; exists {
		return domainErrors.ErrAlreadyRated
	}
	s.Ratings[rating.OrderID] = *rating
	return nil
}

// Count returns the number of stored ratings.
func (s *RatingRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Ratings)
}
