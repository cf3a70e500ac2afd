package repository

import (
	"context"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// DriverRepository provides driver lookups and rating aggregates.
type DriverRepository interface {
	GetByID(ctx context.Context, id string) (*model.Driver, error)
	// ApplyRating adds score to the running sum and increments the count.
	ApplyRating(ctx context.Context, driverID string, score int) error
}

// RatingRepository stores driver ratings, at most one per order.
type RatingRepository interface {
	Create(ctx context.Context, rating *model.DriverRating) error
}
