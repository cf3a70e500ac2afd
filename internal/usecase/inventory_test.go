package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/test"
)

func TestInventoryValidatorValid(t *testing.T) {
	products := test.NewProductRepositoryStub(
		model.Product{ID: "p1", Name: "Ikan Tongkol", Stock: 7},
		model.Product{ID: "p2", Name: "Udang", Stock: 1},
	)
	validator := NewInventoryValidator(products)

	result, err := validator.Validate(context.Background(), []model.CartLine{
		{ProductID: "p1", Quantity: 7},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)
	require.True(t, result.Valid())
	require.NoError(t, result.Err())
	require.Len(t, result.Products, 2)
	require.Equal(t, 0, products.Sets, "validation must not write")
}

func TestInventoryValidatorItemizesShortages(t *testing.T) {
	products := test.NewProductRepositoryStub(
		model.Product{ID: "p1", Name: "Ikan Tongkol", Stock: 2},
		model.Product{ID: "p2", Name: "Udang", Stock: 9},
	)
	validator := NewInventoryValidator(products)

	result, err := validator.Validate(context.Background(), []model.CartLine{
		{ProductID: "p1", Quantity: 5},
		{ProductID: "p2", Quantity: 3},
		{ProductID: "ghost", Quantity: 1},
	})
	require.NoError(t, err)
	require.False(t, result.Valid())
	require.Equal(t, []domainErrors.StockShortage{
		{ProductID: "p1", ProductName: "Ikan Tongkol", Requested: 5, Available: 2},
		{ProductID: "ghost", Requested: 1, Available: 0},
	}, result.Shortages)
	require.EqualError(t, result.Err(), "insufficient stock: Ikan Tongkol requires 5, 2 available; ghost requires 1, 0 available")
	require.ErrorIs(t, result.Err(), domainErrors.ErrInsufficientStock)
}

func TestInventoryValidatorSumsQuantitiesPerProduct(t *testing.T) {
	products := test.NewProductRepositoryStub(model.Product{ID: "p1", Name: "Ikan Tongkol", Stock: 4})
	validator := NewInventoryValidator(products)

	result, err := validator.Validate(context.Background(), []model.CartLine{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p1", Quantity: 2},
	})
	require.NoError(t, err)
	require.Equal(t, []domainErrors.StockShortage{{ProductID: "p1", ProductName: "Ikan Tongkol", Requested: 5, Available: 4}}, result.Shortages)
	require.Equal(t, 1, products.Gets)
}

func TestInventoryValidatorInputErrors(t *testing.T) {
	validator := NewInventoryValidator(test.NewProductRepositoryStub())

	_, err := validator.Validate(context.Background(), nil)
	require.ErrorIs(t, err, domainErrors.ErrEmptyCart)

	_, err = validator.Validate(context.Background(), []model.CartLine{{ProductID: "p1", Quantity: 0}})
	require.ErrorIs(t, err, domainErrors.ErrInvalidQuantity)
}

func TestInventoryValidatorPropagatesStoreFailure(t *testing.T) {
	products := test.NewProductRepositoryStub(model.Product{ID: "p1", Stock: 4})
	products.GetErr["p1"] = domainErrors.Transient(errors.New("timeout"))
	validator := NewInventoryValidator(products)

	_, err := validator.Validate(context.Background(), []model.CartLine{{ProductID: "p1", Quantity: 1}})
	require.True(t, domainErrors.IsTransient(err))
}
