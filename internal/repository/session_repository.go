package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

func (r *Repository) CreateSession(ctx context.Context, session *domain.CheckoutSession) error {
	query := `INSERT INTO checkout_sessions
	            (id, product_id, quantity, billing_cycle, status, amount, currency, external_payment_ref, created_at, expires_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.ProductID,
		session.Quantity,
		session.BillingCycle,
		session.Status,
		session.Amount,
		session.Currency,
		session.ExternalPaymentRef,
		session.CreatedAt,
		session.ExpiresAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert checkout session: %w", err)
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	query := `SELECT id, product_id, quantity, billing_cycle, status, amount, currency, external_payment_ref, created_at, expires_at, updated_at
	          FROM checkout_sessions WHERE id = $1`

	var session domain.CheckoutSession
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.ProductID,
		&session.Quantity,
		&session.BillingCycle,
		&session.Status,
		&session.Amount,
		&session.Currency,
		&session.ExternalPaymentRef,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query checkout session: %w", err)
	}
	return &session, nil
}

func (r *Repository) UpdateSessionStatus(ctx context.Context, id string, from, to domain.SessionStatus) error {
	query := `UPDATE checkout_sessions SET status = $2, updated_at = NOW()
	          WHERE id = $1 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, id, to, from)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return r.oneRowOrStale(ctx, id, result)
}

func (r *Repository) SetPaymentRef(ctx context.Context, id string, ref string) error {
	query := `UPDATE checkout_sessions
	          SET status = $2, external_payment_ref = $3, updated_at = NOW()
	          WHERE id = $1 AND status = $4 AND external_payment_ref IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		id, domain.SessionStatusPaymentPending, ref, domain.SessionStatusCreated)
	if err != nil {
		return fmt.Errorf("set payment ref: %w", err)
	}
	return r.oneRowOrStale(ctx, id, result)
}

func (r *Repository) MarkExpired(ctx context.Context, id string) error {
	query := `UPDATE checkout_sessions SET status = $2, updated_at = NOW()
	          WHERE id = $1 AND status IN ($3, $4)`

	result, err := r.db.ExecContext(ctx, query,
		id, domain.SessionStatusExpired,
		domain.SessionStatusCreated, domain.SessionStatusPaymentPending)
	if err != nil {
		return fmt.Errorf("mark session expired: %w", err)
	}
	return r.oneRowOrStale(ctx, id, result)
}

// oneRowOrStale distinguishes a missing session from a conditional
// update that matched no rows because the status moved on.
func (r *Repository) oneRowOrStale(ctx context.Context, id string, result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM checkout_sessions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check session existence: %w", err)
	}
	if !exists {
		return store.ErrSessionNotFound
	}
	return store.ErrStaleStatus
}
