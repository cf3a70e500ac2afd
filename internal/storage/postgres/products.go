package postgres

import (
	"context"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

type productRepository struct {
	storage *Storage
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `SELECT id, seller_id, name, unit, price, stock, available, version, updated_at FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.SellerID, &p.Name, &p.Unit, &p.Price, &p.Stock, &p.Available, &p.Version, &p.UpdatedAt)
	if err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

func (r *productRepository) CompareAndSetStock(ctx context.Context, id string, version int64, stock int) (bool, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `UPDATE products SET stock=$1, available=$2, version=version+1, updated_at=NOW()
                   WHERE id=$3 AND version=$4`
	tag, err := r.storage.pool.Exec(ctx, query, stock, stock > 0, id, version)
	if err != nil {
		return false, classify(err)
	}
	return tag.RowsAffected() == 1, nil
}
