package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/domain/repository"
)

// CartUseCase manages buyer carts. A cart holds products of one seller only.
type CartUseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, products repository.ProductRepository) *CartUseCase {
	return &CartUseCase{carts: carts, products: products}
}

// Add puts qty units of a product into the cart, stacking onto an existing
// line. Seller and price are captured from the product at this moment.
func (u *CartUseCase) Add(ctx context.Context, buyerID, productID string, qty int) (*model.CartLine, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: %d", domainErrors.ErrInvalidQuantity, qty)
	}

	product, err := u.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Available {
		return nil, &domainErrors.InsufficientStockError{Items: []domainErrors.StockShortage{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   qty,
			Available:   product.Stock,
		}}}
	}

	existing, err := u.carts.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	line := &model.CartLine{
		BuyerID:   buyerID,
		ProductID: product.ID,
		SellerID:  product.SellerID,
		Quantity:  qty,
		UnitPrice: product.Price,
	}
	for _, l := range existing {
		if l.SellerID != product.SellerID {
			return nil, domainErrors.ErrMixedSellers
		}
		if l.ProductID == product.ID {
			line.Quantity += l.Quantity
		}
	}

	if err := u.carts.Upsert(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// List returns the buyer's cart lines.
func (u *CartUseCase) List(ctx context.Context, buyerID string) ([]model.CartLine, error) {
	return u.carts.ListByBuyer(ctx, buyerID)
}

// Clear empties the buyer's cart.
func (u *CartUseCase) Clear(ctx context.Context, buyerID string) error {
	return u.carts.ClearByBuyer(ctx, buyerID)
}
