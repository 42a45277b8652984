package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/gateway"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/metrics"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

// CheckoutService drives a session through
// created -> payment_pending -> confirmed/failed, with expiry checked
// lazily on every load. All collaborators are passed in explicitly.
type CheckoutService struct {
	sessions store.SessionStore
	products store.ProductStore
	pricing  *PricingResolver
	gateway  gateway.PaymentGateway

	materializer *OrderMaterializer

	sessionTTL     time.Duration
	gatewayTimeout time.Duration
	log            *slog.Logger
	now            func() time.Time
}

func NewCheckoutService(
	sessions store.SessionStore,
	products store.ProductStore,
	gw gateway.PaymentGateway,
	materializer *OrderMaterializer,
	sessionTTL time.Duration,
	gatewayTimeout time.Duration,
	log *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		sessions:       sessions,
		products:       products,
		pricing:        NewPricingResolver(),
		gateway:        gw,
		materializer:   materializer,
		sessionTTL:     sessionTTL,
		gatewayTimeout: gatewayTimeout,
		log:            log,
		now:            time.Now,
	}
}

// CreateSession validates the request, resolves the charge amount and
// persists a fresh session in state created.
func (s *CheckoutService) CreateSession(ctx context.Context, productID string, cycle domain.BillingCycle, quantity int) (*domain.CheckoutSession, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if !cycle.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBillingCycle, cycle)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		// inactive products are not purchasable, indistinguishable from absent
		return nil, store.ErrProductNotFound
	}

	amount, err := s.pricing.Resolve(product, cycle, quantity)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &domain.CheckoutSession{
		ID:           uuid.NewString(),
		ProductID:    product.ID,
		Quantity:     quantity,
		BillingCycle: cycle,
		Status:       domain.SessionStatusCreated,
		Amount:       amount,
		Currency:     product.Currency,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.sessionTTL),
		UpdatedAt:    now,
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("persist checkout session: %w", err)
	}

	metrics.SessionsCreated.Inc()
	s.log.Info("checkout session created",
		slog.String("session_id", session.ID),
		slog.String("product_id", product.ID),
		slog.Int64("amount", amount),
		slog.String("currency", session.Currency))
	return session, nil
}

// GetSession loads a session, applying lazy expiry.
func (s *CheckoutService) GetSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	return s.loadSession(ctx, sessionID)
}

// BeginPayment requests a payment intent for a created session. On
// gateway failure the session stays created and the error surfaces to
// the caller; there is no silent retry.
func (s *CheckoutService) BeginPayment(ctx context.Context, sessionID, paymentMethodID string) (string, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.Status != domain.SessionStatusCreated {
		return "", fmt.Errorf("%w: session is %s", ErrInvalidSessionState, session.Status)
	}

	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	start := time.Now()
	intent, err := s.gateway.CreatePaymentIntent(gctx, session.Amount, session.Currency, gateway.Metadata{
		"session_id":     session.ID,
		"product_id":     session.ProductID,
		"payment_method": paymentMethodID,
	})
	observeGatewayCall("create_intent", start, err)
	if err != nil {
		return "", err
	}

	if err := s.sessions.SetPaymentRef(ctx, session.ID, intent.Ref); err != nil {
		if errors.Is(err, store.ErrStaleStatus) {
			return "", fmt.Errorf("%w: session changed concurrently", ErrInvalidSessionState)
		}
		return "", fmt.Errorf("store payment ref: %w", err)
	}

	s.log.Info("payment started",
		slog.String("session_id", session.ID),
		slog.String("payment_ref", intent.Ref))
	return intent.ClientSecret, nil
}

// Confirm checks the authoritative payment status and, on success,
// marks the session confirmed and materializes the order. Calling it
// again on an already confirmed session re-runs materialization, which
// is idempotent, so retries after a partial failure converge on the
// same order.
func (s *CheckoutService) Confirm(ctx context.Context, sessionID, userID string) (*domain.Order, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case domain.SessionStatusConfirmed:
		return s.materializer.Materialize(ctx, session, userID)
	case domain.SessionStatusPaymentPending:
		// fall through to the gateway check
	default:
		return nil, fmt.Errorf("%w: session is %s", ErrInvalidSessionState, session.Status)
	}

	if session.ExternalPaymentRef == nil {
		return nil, fmt.Errorf("session %s is payment_pending without a payment ref", session.ID)
	}
	ref := *session.ExternalPaymentRef

	gctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	start := time.Now()
	status, err := s.gateway.GetPaymentStatus(gctx, ref)
	observeGatewayCall("get_status", start, err)
	if err != nil {
		// recoverable: session stays payment_pending, caller may retry
		return nil, err
	}

	switch status {
	case gateway.StatusFailed:
		if err := s.transition(ctx, session.ID, domain.SessionStatusPaymentPending, domain.SessionStatusFailed); err != nil && !errors.Is(err, store.ErrStaleStatus) {
			return nil, fmt.Errorf("mark session failed: %w", err)
		}
		s.log.Info("payment declined",
			slog.String("session_id", session.ID),
			slog.String("payment_ref", ref))
		return nil, fmt.Errorf("%w: ref %s", ErrPaymentDeclined, ref)
	case gateway.StatusPending:
		return nil, ErrPaymentNotSettled
	case gateway.StatusSucceeded:
		// continue
	default:
		return nil, fmt.Errorf("unexpected gateway status %q for ref %s", status, ref)
	}

	if err := s.transition(ctx, session.ID, domain.SessionStatusPaymentPending, domain.SessionStatusConfirmed); err != nil {
		if !errors.Is(err, store.ErrStaleStatus) {
			return nil, fmt.Errorf("mark session confirmed: %w", err)
		}
		// a concurrent confirm won the race; proceed only if it confirmed
		current, err2 := s.sessions.GetSession(ctx, session.ID)
		if err2 != nil {
			return nil, err2
		}
		if current.Status != domain.SessionStatusConfirmed {
			return nil, fmt.Errorf("%w: session is %s", ErrInvalidSessionState, current.Status)
		}
	}
	session.Status = domain.SessionStatusConfirmed

	return s.materializer.Materialize(ctx, session, userID)
}

// transition applies a status move, rejecting anything outside the
// legal transition table before touching the store.
func (s *CheckoutService) transition(ctx context.Context, id string, from, to domain.SessionStatus) error {
	if !domain.CanTransitionTo(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidSessionState, from, to)
	}
	return s.sessions.UpdateSessionStatus(ctx, id, from, to)
}

// loadSession reads the session and applies lazy expiry: past expiresAt
// a non-terminal session is persisted as expired before returning.
func (s *CheckoutService) loadSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsExpiredAt(s.now()) {
		if err := s.sessions.MarkExpired(ctx, session.ID); err != nil {
			if errors.Is(err, store.ErrStaleStatus) {
				// raced into a terminal state; re-read the truth
				return s.sessions.GetSession(ctx, sessionID)
			}
			return nil, fmt.Errorf("mark session expired: %w", err)
		}
		session.Status = domain.SessionStatusExpired
		metrics.SessionsExpired.Inc()
		s.log.Info("checkout session expired", slog.String("session_id", session.ID))
	}

	return session, nil
}

func observeGatewayCall(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.GatewayCalls.WithLabelValues(operation, outcome).Inc()
	metrics.GatewayLatency.Observe(time.Since(start).Seconds())
}
