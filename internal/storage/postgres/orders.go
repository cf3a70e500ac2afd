package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

type orderLineRepository struct {
	storage *Storage
}

const orderColumns = `id, buyer_id, seller_id, buyer_name, buyer_phone, delivery_address, delivery_notes,
                      payment_method, payment_status, total_amount, status, driver_id, driver_rated,
                      created_at, updated_at, delivered_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, o *model.Order) error {
	return row.Scan(&o.ID, &o.BuyerID, &o.SellerID, &o.BuyerName, &o.BuyerPhone, &o.DeliveryAddress, &o.DeliveryNotes,
		&o.PaymentMethod, &o.PaymentStatus, &o.TotalAmount, &o.Status, &o.DriverID, &o.DriverRated,
		&o.CreatedAt, &o.UpdatedAt, &o.DeliveredAt)
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `INSERT INTO orders (id, buyer_id, seller_id, buyer_name, buyer_phone, delivery_address, delivery_notes,
                       payment_method, payment_status, total_amount, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		order.ID, order.BuyerID, order.SellerID, order.BuyerName, order.BuyerPhone, order.DeliveryAddress, order.DeliveryNotes,
		order.PaymentMethod, order.PaymentStatus, order.TotalAmount, order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	return classify(err)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	var order model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id), &order); err != nil {
		return nil, classify(err)
	}
	return &order, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	rows, err := r.storage.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE buyer_id=$1 ORDER BY created_at DESC`, buyerID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, classify(err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// Delete removes the header; order_lines go with it through the cascade.
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) TransitionStatus(ctx context.Context, id string, from, to model.OrderStatus, patch model.OrderPatch) (bool, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `UPDATE orders
                   SET status=$1,
                       driver_id=COALESCE($2, driver_id),
                       delivered_at=COALESCE($3, delivered_at),
                       payment_status=COALESCE($4, payment_status),
                       updated_at=NOW()
                   WHERE id=$5 AND status=$6`
	tag, err := r.storage.pool.Exec(ctx, query, to, patch.DriverID, patch.DeliveredAt, patch.PaymentStatus, id, from)
	if err != nil {
		return false, classify(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepository) MarkDriverRated(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `UPDATE orders SET driver_rated=TRUE, updated_at=NOW() WHERE id=$1 AND driver_rated=FALSE`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return false, classify(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderLineRepository) Create(ctx context.Context, line *model.OrderLine) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `INSERT INTO order_lines (id, order_id, product_id, product_name, unit, quantity, unit_price, line_total)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.storage.pool.Exec(ctx, query,
		line.ID, line.OrderID, line.ProductID, line.ProductName, line.Unit, line.Quantity, line.UnitPrice, line.LineTotal)
	return classify(err)
}

func (r *orderLineRepository) ListByOrder(ctx context.Context, orderID string) ([]model.OrderLine, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	const query = `SELECT id, order_id, product_id, product_name, unit, quantity, unit_price, line_total
                   FROM order_lines WHERE order_id=$1 ORDER BY product_name, id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var result []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Unit, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, classify(err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return result, nil
}
