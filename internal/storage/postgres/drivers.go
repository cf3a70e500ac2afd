package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
)

type driverRepository struct {
	storage *Storage
}

type ratingRepository struct {
	storage *Storage
}

func (r *driverRepository) GetByID(ctx context.Context, id string) (*model.Driver, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `SELECT id, seller_id, name, phone, available, rating_sum, rating_count FROM drivers WHERE id=$1`
	var d model.Driver
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.SellerID, &d.Name, &d.Phone, &d.Available, &d.RatingSum, &d.RatingCount)
	if err != nil {
		return nil, classify(err)
	}
	return &d, nil
}

func (r *driverRepository) ApplyRating(ctx context.Context, driverID string, score int) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `UPDATE drivers SET rating_sum = rating_sum + $1, rating_count = rating_count + 1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, score, driverID)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *ratingRepository) Create(ctx context.Context, rating *model.DriverRating) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `INSERT INTO driver_ratings (id, driver_id, order_id, buyer_id, score, comment)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		rating.ID, rating.DriverID, rating.OrderID, rating.BuyerID, rating.Score, rating.Comment,
	).Scan(&rating.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyRated
		}
		return classify(err)
	}
	return nil
}
