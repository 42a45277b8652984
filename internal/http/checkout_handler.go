package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
)

// CheckoutOrchestrator is the slice of the checkout service the
// handlers need.
type CheckoutOrchestrator interface {
	CreateSession(ctx context.Context, productID string, cycle domain.BillingCycle, quantity int) (*domain.CheckoutSession, error)
	BeginPayment(ctx context.Context, sessionID, paymentMethodID string) (string, error)
	GetSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error)
}

type CheckoutHandler struct {
	checkout CheckoutOrchestrator
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutOrchestrator, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type CreateSessionRequestDTO struct {
	ProductID    string `json:"productId"`
	BillingCycle string `json:"billingCycle"`
	Quantity     int    `json:"quantity"`
}

type SessionResponseDTO struct {
	SessionID string `json:"sessionId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Cycle     string `json:"billingCycle"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expiresAt"`
}

type CreatePaymentIntentRequestDTO struct {
	SessionID       string `json:"sessionId"`
	PaymentMethodID string `json:"paymentMethodId"`
}

type PaymentIntentResponseDTO struct {
	ClientSecret string `json:"clientSecret"`
}

// POST /checkout/create-session
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateSessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "missing_product_id", "productId is required")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}
	cycle := domain.BillingCycle(req.BillingCycle)
	if !cycle.IsValid() {
		respondError(w, http.StatusBadRequest, "invalid_billing_cycle",
			"billingCycle must be one of one_time, weekly, monthly, yearly")
		return
	}

	session, err := h.checkout.CreateSession(ctx, req.ProductID, cycle, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertSession(session))
}

// POST /checkout/create-payment-intent
func (h *CheckoutHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreatePaymentIntentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "sessionId is required")
		return
	}

	clientSecret, err := h.checkout.BeginPayment(ctx, req.SessionID, req.PaymentMethodID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, PaymentIntentResponseDTO{ClientSecret: clientSecret})
}

// GET /checkout/sessions/{session_id}
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "session_id is required")
		return
	}

	session, err := h.checkout.GetSession(ctx, sessionID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertSession(session))
}

func convertSession(s *domain.CheckoutSession) SessionResponseDTO {
	return SessionResponseDTO{
		SessionID: s.ID,
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		Cycle:     s.BillingCycle.String(),
		Amount:    s.Amount,
		Currency:  s.Currency,
		Status:    s.Status.String(),
		ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
