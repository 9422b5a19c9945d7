package main

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
)

type postgresOrderStorage struct {
	logger *zap.Logger
	db     *sql.DB
}

// NewPostgresOrderStorage provides an instance of postgres-based order storage.
func NewPostgresOrderStorage(logger *zap.Logger, db *sql.DB) OrderStorage {
	return &postgresOrderStorage{
		logger: logger,
		db:     db,
	}
}

// Add inserts a new order record with its items in a single transaction.
func (ps *postgresOrderStorage) Add(ctx context.Context, order Order) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (id, user_id, order_date, total_amount, status, shipping_address, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, query,
		order.ID, order.UserID, order.OrderDate, order.TotalAmount,
		order.Status, order.ShippingAddress, order.PaymentMethod,
	); err != nil {
		return err
	}

	itemQuery := `INSERT INTO order_items (order_id, book_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5)`
	for i := range order.Items {
		item := order.Items[i]
		if _, err := tx.ExecContext(ctx, itemQuery,
			order.ID, item.BookID, item.Quantity, item.UnitPrice, item.Subtotal,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetOne retrieves an order record with its items based on its ID.
func (ps *postgresOrderStorage) GetOne(ctx context.Context, id string) (Order, error) {
	var order Order
	query := `SELECT id, user_id, order_date, total_amount, status, shipping_address, payment_method
		FROM orders WHERE id = $1`
	err := ps.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.OrderDate, &order.TotalAmount,
		&order.Status, &order.ShippingAddress, &order.PaymentMethod,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return order, ErrOrderNotFound
	}
	if err != nil {
		return order, err
	}

	order.Items, err = ps.getItems(ctx, order.ID)
	return order, err
}

// GetAllByUser retrieves all orders placed by a user, most recent first.
func (ps *postgresOrderStorage) GetAllByUser(ctx context.Context, userID string) ([]Order, error) {
	query := `SELECT id, user_id, order_date, total_amount, status, shipping_address, payment_method
		FROM orders WHERE user_id = $1 ORDER BY order_date DESC`
	rows, err := ps.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var order Order
		if err := rows.Scan(
			&order.ID, &order.UserID, &order.OrderDate, &order.TotalAmount,
			&order.Status, &order.ShippingAddress, &order.PaymentMethod,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := ps.getItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// UpdateStatus sets the status of an existing order record.
func (ps *postgresOrderStorage) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`
	result, err := ps.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (ps *postgresOrderStorage) getItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	query := `SELECT book_id, quantity, unit_price, subtotal FROM order_items WHERE order_id = $1`
	rows, err := ps.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.BookID, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
