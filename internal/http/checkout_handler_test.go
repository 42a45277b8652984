package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/gateway"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/service"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

type mockOrchestrator struct {
	session      *domain.CheckoutSession
	sessionErr   error
	clientSecret string
	paymentErr   error

	gotProductID string
	gotCycle     domain.BillingCycle
	gotQuantity  int
}

func (m *mockOrchestrator) CreateSession(_ context.Context, productID string, cycle domain.BillingCycle, quantity int) (*domain.CheckoutSession, error) {
	m.gotProductID = productID
	m.gotCycle = cycle
	m.gotQuantity = quantity
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return m.session, nil
}

func (m *mockOrchestrator) BeginPayment(_ context.Context, sessionID, paymentMethodID string) (string, error) {
	if m.paymentErr != nil {
		return "", m.paymentErr
	}
	return m.clientSecret, nil
}

func (m *mockOrchestrator) GetSession(_ context.Context, sessionID string) (*domain.CheckoutSession, error) {
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return m.session, nil
}

func testSession() *domain.CheckoutSession {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	return &domain.CheckoutSession{
		ID:           "sess-1",
		ProductID:    "prod-pro-plan",
		BillingCycle: domain.BillingCycleMonthly,
		Quantity:     2,
		Amount:       3000,
		Currency:     "USD",
		Status:       domain.SessionStatusCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(30 * time.Minute),
	}
}

func checkoutRouter(h *CheckoutHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/checkout/create-session", h.CreateSession)
	r.Post("/checkout/create-payment-intent", h.CreatePaymentIntent)
	r.Get("/checkout/sessions/{session_id}", h.GetSession)
	return r
}

func TestCreateSessionHandler_Success(t *testing.T) {
	mock := &mockOrchestrator{session: testSession()}
	r := checkoutRouter(NewCheckoutHandler(mock, 5*time.Second))

	body := `{"productId":"prod-pro-plan","billingCycle":"monthly","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/checkout/create-session", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "prod-pro-plan", mock.gotProductID)
	assert.Equal(t, domain.BillingCycleMonthly, mock.gotCycle)
	assert.Equal(t, 2, mock.gotQuantity)

	var resp SessionResponseDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, int64(3000), resp.Amount)
	assert.Equal(t, "created", resp.Status)
	assert.Equal(t, "2026-09-01T10:30:00Z", resp.ExpiresAt)
}

func TestCreateSessionHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{not json`, "invalid_request"},
		{"missing product", `{"billingCycle":"monthly","quantity":1}`, "missing_product_id"},
		{"zero quantity", `{"productId":"p","billingCycle":"monthly","quantity":0}`, "invalid_quantity"},
		{"bad cycle", `{"productId":"p","billingCycle":"daily","quantity":1}`, "invalid_billing_cycle"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockOrchestrator{session: testSession()}
			r := checkoutRouter(NewCheckoutHandler(mock, 5*time.Second))

			req := httptest.NewRequest(http.MethodPost, "/checkout/create-session", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tc.code, resp.Code)
		})
	}
}

func TestCreateSessionHandler_ProductNotFound(t *testing.T) {
	mock := &mockOrchestrator{sessionErr: store.ErrProductNotFound}
	r := checkoutRouter(NewCheckoutHandler(mock, 5*time.Second))

	body := `{"productId":"missing","billingCycle":"one_time","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/checkout/create-session", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePaymentIntentHandler_Success(t *testing.T) {
	mock := &mockOrchestrator{clientSecret: "pi_secret_123"}
	r := checkoutRouter(NewCheckoutHandler(mock, 5*time.Second))

	body := `{"sessionId":"sess-1","paymentMethodId":"pm_card_visa"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout/create-payment-intent", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp PaymentIntentResponseDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "pi_secret_123", resp.ClientSecret)
}

func TestCreatePaymentIntentHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid state", service.ErrInvalidSessionState, http.StatusConflict},
		{"session missing", store.ErrSessionNotFound, http.StatusNotFound},
		{"gateway down", gateway.ErrUnavailable, http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockOrchestrator{paymentErr: tc.err}
			r := checkoutRouter(NewCheckoutHandler(mock, 5*time.Second))

			body := `{"sessionId":"sess-1","paymentMethodId":"pm_card_visa"}`
			req := httptest.NewRequest(http.MethodPost, "/checkout/create-payment-intent", strings.NewReader(body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestCreatePaymentIntentHandler_MissingSessionID(t *testing.T) {
	mock := &mockOrchestrator{clientSecret: "secret"}
	r := checkoutRouter(NewCheckoutHandler(mock, 5*time.Second))

	req := httptest.NewRequest(http.MethodPost, "/checkout/create-payment-intent", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSessionHandler(t *testing.T) {
	mock := &mockOrchestrator{session: testSession()}
	r := checkoutRouter(NewCheckoutHandler(mock, 5*time.Second))

	req := httptest.NewRequest(http.MethodGet, "/checkout/sessions/sess-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponseDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, "monthly", resp.Cycle)
}

func TestGetSessionHandler_NotFound(t *testing.T) {
	mock := &mockOrchestrator{sessionErr: store.ErrSessionNotFound}
	r := checkoutRouter(NewCheckoutHandler(mock, 5*time.Second))

	req := httptest.NewRequest(http.MethodGet, "/checkout/sessions/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "session_not_found", resp.Code)
}
