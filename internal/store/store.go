package store

import (
	"context"
	"errors"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")

	// ErrDuplicateSession is returned when an order already exists for
	// the source checkout session (unique constraint violation).
	ErrDuplicateSession = errors.New("order already exists for checkout session")

	// ErrStaleStatus is returned by conditional updates when the session
	// is no longer in the expected status.
	ErrStaleStatus = errors.New("checkout session status changed concurrently")
)

type SessionStore interface {
	CreateSession(ctx context.Context, session *domain.CheckoutSession) error
	GetSession(ctx context.Context, id string) (*domain.CheckoutSession, error)

	// UpdateSessionStatus moves the session from `from` to `to` only if it
	// is still in `from`, returning ErrStaleStatus otherwise.
	UpdateSessionStatus(ctx context.Context, id string, from, to domain.SessionStatus) error

	// SetPaymentRef transitions created -> payment_pending and records the
	// gateway reference in one conditional write. The ref is never
	// overwritten once set.
	SetPaymentRef(ctx context.Context, id string, ref string) error

	// MarkExpired sets the session to expired if it is still in a
	// non-terminal state.
	MarkExpired(ctx context.Context, id string) error
}

type OrderStore interface {
	// CreateOrder inserts the order, returning ErrDuplicateSession when an
	// order for the same source session already exists.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
}

type ProductStore interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}
