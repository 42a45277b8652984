package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/metrics"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/publisher"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

// OrderMaterializer turns a confirmed session into a persisted order,
// exactly once per session. Idempotency is carried by the unique
// source session id in the order store, not by in-memory locking, so
// concurrent confirms converge on one order.
type OrderMaterializer struct {
	orders store.OrderStore
	events publisher.EventPublisher
	log    *slog.Logger
	now    func() time.Time
}

func NewOrderMaterializer(orders store.OrderStore, events publisher.EventPublisher, log *slog.Logger) *OrderMaterializer {
	return &OrderMaterializer{
		orders: orders,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (m *OrderMaterializer) Materialize(ctx context.Context, session *domain.CheckoutSession, userID string) (*domain.Order, error) {
	if session.Status != domain.SessionStatusConfirmed {
		return nil, fmt.Errorf("%w: session is %s", ErrInvalidSessionState, session.Status)
	}

	existing, err := m.orders.GetOrderBySessionID(ctx, session.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrOrderNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	now := m.now().UTC()
	order := &domain.Order{
		ID:                uuid.NewString(),
		OrderNumber:       newOrderNumber(now),
		SourceSessionID:   session.ID,
		UserID:            userID,
		Status:            domain.OrderStatusPending,
		FulfillmentStatus: domain.FulfillmentStatusUnfulfilled,
		PaymentStatus:     domain.PaymentStatusPaid,
		Amount:            session.Amount,
		Currency:          session.Currency,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := m.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, store.ErrDuplicateSession) {
			// a concurrent materialization won; return its order
			winner, err2 := m.orders.GetOrderBySessionID(ctx, session.ID)
			if err2 != nil {
				return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err2)
			}
			return winner, nil
		}
		// the session stays confirmed; the caller retries materialization
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	metrics.OrdersMaterialized.Inc()
	m.log.Info("order materialized",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("session_id", session.ID))

	if err := m.events.PublishOrderCreated(ctx, order); err != nil {
		m.log.Warn("failed to publish order event",
			slog.String("order_id", order.ID),
			slog.Any("error", err))
	}

	return order, nil
}

// newOrderNumber builds a human-readable unique number like
// ORD-20260901-3F2A9C1B. The store's unique constraint backs it up.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
