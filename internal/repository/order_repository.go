package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

const orderColumns = `id, order_number, source_session_id, user_id, status, fulfillment_status, payment_status, amount, currency, created_at, updated_at`

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.OrderNumber,
		order.SourceSessionID,
		order.UserID,
		order.Status,
		order.FulfillmentStatus,
		order.PaymentStatus,
		order.Amount,
		order.Currency,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return store.ErrDuplicateSession
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repository) GetOrderBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE source_session_id = $1`
	return r.scanOrder(r.db.QueryRowContext(ctx, query, sessionID))
}

func (r *Repository) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	return r.scanOrder(r.db.QueryRowContext(ctx, query, orderNumber))
}

func (r *Repository) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.OrderNumber,
			&order.SourceSessionID,
			&order.UserID,
			&order.Status,
			&order.FulfillmentStatus,
			&order.PaymentStatus,
			&order.Amount,
			&order.Currency,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}

func (r *Repository) scanOrder(row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.SourceSessionID,
		&order.UserID,
		&order.Status,
		&order.FulfillmentStatus,
		&order.PaymentStatus,
		&order.Amount,
		&order.Currency,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &order, nil
}
