package postgres

import (
	"context"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

type cartRepository struct {
	storage *Storage
}

func (r *cartRepository) ListByBuyer(ctx context.Context, buyerID string) ([]model.CartLine, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `SELECT buyer_id, product_id, seller_id, quantity, unit_price, added_at
                   FROM cart_lines WHERE buyer_id=$1 ORDER BY added_at`
	rows, err := r.storage.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var result []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.BuyerID, &l.ProductID, &l.SellerID, &l.Quantity, &l.UnitPrice, &l.AddedAt); err != nil {
			return nil, classify(err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return result, nil
}

func (r *cartRepository) Upsert(ctx context.Context, line *model.CartLine) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `INSERT INTO cart_lines (buyer_id, product_id, seller_id, quantity, unit_price)
                   VALUES ($1, $2, $3, $4, $5)
                   ON CONFLICT (buyer_id, product_id) DO UPDATE
                   SET quantity = EXCLUDED.quantity, unit_price = EXCLUDED.unit_price, seller_id = EXCLUDED.seller_id
                   RETURNING added_at`
	err := r.storage.pool.QueryRow(ctx, query, line.BuyerID, line.ProductID, line.SellerID, line.Quantity, line.UnitPrice).Scan(&line.AddedAt)
	return classify(err)
}

func (r *cartRepository) ClearByBuyer(ctx context.Context, buyerID string) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	if _, err := r.storage.pool.Exec(ctx, `DELETE FROM cart_lines WHERE buyer_id=$1`, buyerID); err != nil {
		return classify(err)
	}
	return nil
}
