package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// PlaceOrder inserts the order and its items in one transaction. Each item
// decrements its variant's stock and bumps its sold count; items without an
// explicit variant fall back to the product's first variant.
func (r *OrderRepository) PlaceOrder(ctx context.Context, order *models.Order, items []models.CartItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
        INSERT INTO orders (reference, customer_name, customer_phone, total, status, store_id, delivery_address)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `, order.Reference, order.CustomerName, order.CustomerPhone, order.Total,
		models.OrderStatusPending, order.StoreID, nullableText(order.DeliveryAddress),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	order.Status = models.OrderStatusPending

	for _, it := range items {
		if it.ProductID == 0 || it.Qty <= 0 {
			continue
		}

		variantID := it.VariantID
		if variantID == 0 {
			err := tx.QueryRow(ctx,
				`SELECT id FROM product_variants WHERE product_id = $1 ORDER BY id LIMIT 1`,
				it.ProductID,
			).Scan(&variantID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("resolving variant for product %d: %w", it.ProductID, err)
			}
		}

		_, err = tx.Exec(ctx, `
            INSERT INTO order_items (order_id, product_id, variant_id, qty, price)
            VALUES ($1, $2, $3, $4, $5)
        `, order.ID, it.ProductID, nullableID(variantID), it.Qty, it.Price)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}

		if variantID != 0 {
			_, err = tx.Exec(ctx, `
                UPDATE product_variants
                SET stock = stock - $1, sold_count = sold_count + $1
                WHERE id = $2
            `, it.Qty, variantID)
			if err != nil {
				return fmt.Errorf("updating stock for variant %d: %w", variantID, err)
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	var deliveryAddress *string
	err := r.pool.QueryRow(ctx, `
        SELECT id, COALESCE(reference, ''), COALESCE(customer_name, ''), COALESCE(customer_phone, ''),
               total, status, store_id, delivery_address, created_at
        FROM orders
        WHERE id = $1
    `, id).Scan(&o.ID, &o.Reference, &o.CustomerName, &o.CustomerPhone,
		&o.Total, &o.Status, &o.StoreID, &deliveryAddress, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	if deliveryAddress != nil {
		o.DeliveryAddress = *deliveryAddress
	}

	items, err := r.orderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, COALESCE(reference, ''), COALESCE(customer_name, ''), COALESCE(customer_phone, ''),
               total, status, store_id, delivery_address, created_at
        FROM orders
        ORDER BY id DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var deliveryAddress *string
		err := rows.Scan(&o.ID, &o.Reference, &o.CustomerName, &o.CustomerPhone,
			&o.Total, &o.Status, &o.StoreID, &deliveryAddress, &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		if deliveryAddress != nil {
			o.DeliveryAddress = *deliveryAddress
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *OrderRepository) orderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT oi.id, oi.order_id, oi.product_id, COALESCE(oi.variant_id, 0), oi.qty, oi.price,
               p.name, COALESCE(pv.variant_name, '')
        FROM order_items oi
        JOIN products p ON oi.product_id = p.id
        LEFT JOIN product_variants pv ON oi.variant_id = pv.id
        WHERE oi.order_id = $1
        ORDER BY oi.id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID,
			&it.Qty, &it.Price, &it.Name, &it.VariantName)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
