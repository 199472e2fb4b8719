package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domorder "github.com/trinibuild/storefront/internal/domain/order"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order and its items in one transaction. The order
// number comes from a per-store sequence inside the same transaction, so
// a failed write never burns a number and nothing is visible unless the
// whole order landed.
func (r *OrderRepository) Create(ctx context.Context, o *domorder.Order) (_ *domorder.Order, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var seq int64
	err = tx.QueryRowContext(ctx, `
        INSERT INTO order_sequence (store_id, last_number, updated_at)
        VALUES ($1, 1001, NOW())
        ON CONFLICT (store_id)
        DO UPDATE SET last_number = order_sequence.last_number + 1, updated_at = NOW()
        RETURNING last_number
    `, o.StoreID).Scan(&seq)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	id := uuid.NewString()
	orderNumber := fmt.Sprintf("ORD-%d", seq)

	_, err = tx.ExecContext(ctx, `
        INSERT INTO orders (
            id, order_number, store_id,
            customer_name, customer_phone, address, city, notes,
            payment_method, delivery, schedule, scheduled_date,
            phone_verified, discount_code,
            subtotal, discount, delivery_fee, total, status
        ) VALUES (
            $1, $2, $3,
            $4, $5, $6, $7, $8,
            $9, $10, $11, $12,
            $13, $14,
            $15, $16, $17, $18, $19
        )
    `, id, orderNumber, o.StoreID,
		o.Shipping.Name, o.Shipping.Phone, o.Shipping.Address, o.Shipping.City, o.Shipping.Notes,
		o.PaymentMethod, o.Delivery, o.Schedule, o.ScheduledDate,
		o.PhoneVerified, o.DiscountCode,
		o.Subtotal, o.Discount, o.DeliveryFee, o.Total, o.Status)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, name, unit_price, quantity)
            VALUES ($1, $2, $3, $4, $5)
        `, id, item.ProductID, item.Name, item.UnitPrice, item.Quantity)
		if err != nil {
			retErr = err
			return nil, retErr
		}
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}

	return r.GetByID(ctx, id)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, order_number, store_id,
               customer_name, customer_phone, address, city, notes,
               payment_method, delivery, schedule, scheduled_date,
               phone_verified, discount_code,
               subtotal, discount, delivery_fee, total, status, created_at
        FROM orders WHERE id = $1
    `, id)

	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	items, err := r.listOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) ListByStore(ctx context.Context, storeID string) ([]*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_number, store_id,
               customer_name, customer_phone, address, city, notes,
               payment_method, delivery, schedule, scheduled_date,
               phone_verified, discount_code,
               subtotal, discount, delivery_fee, total, status, created_at
        FROM orders
        WHERE store_id = $1
        ORDER BY created_at DESC
    `, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domorder.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.listOrderItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domorder.Status) (*domorder.Order, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders SET status = $1 WHERE id = $2
    `, status, id)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, domorder.ErrOrderNotFound
	}
	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domorder.Order, error) {
	var o domorder.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.StoreID,
		&o.Shipping.Name, &o.Shipping.Phone, &o.Shipping.Address, &o.Shipping.City, &o.Shipping.Notes,
		&o.PaymentMethod, &o.Delivery, &o.Schedule, &o.ScheduledDate,
		&o.PhoneVerified, &o.DiscountCode,
		&o.Subtotal, &o.Discount, &o.DeliveryFee, &o.Total, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) listOrderItems(ctx context.Context, orderID string) ([]domorder.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, product_id, name, unit_price, quantity
        FROM order_items WHERE order_id = $1
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.Item
	for rows.Next() {
		var item domorder.Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
