package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

// OrderConfirmer is the confirm slice of the checkout service.
type OrderConfirmer interface {
	Confirm(ctx context.Context, sessionID, userID string) (*domain.Order, error)
}

type OrdersHandler struct {
	confirmer OrderConfirmer
	orders    store.OrderStore
	timeout   time.Duration
}

func NewOrdersHandler(confirmer OrderConfirmer, orders store.OrderStore, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		confirmer: confirmer,
		orders:    orders,
		timeout:   timeout,
	}
}

type ConfirmRequestDTO struct {
	SessionID string `json:"sessionId"`
}

type OrderResponseDTO struct {
	ID                string `json:"id"`
	OrderNumber       string `json:"orderNumber"`
	SessionID         string `json:"sessionId"`
	Status            string `json:"status"`
	FulfillmentStatus string `json:"fulfillmentStatus"`
	PaymentStatus     string `json:"paymentStatus"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	CreatedAt         string `json:"createdAt"`
}

// POST /orders/confirm
func (h *OrdersHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req ConfirmRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "sessionId is required")
		return
	}

	order, err := h.confirmer.Confirm(ctx, req.SessionID, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// GET /orders/{order_number}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderNumber := chi.URLParam(r, "order_number")
	if orderNumber == "" {
		respondError(w, http.StatusBadRequest, "missing_order_number", "order_number is required")
		return
	}

	order, err := h.orders.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if order.UserID != userID {
		// not leaked to other principals
		respondDomainError(w, store.ErrOrderNotFound)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// GET /orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.orders.ListOrdersByUserID(ctx, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}

	respondJSON(w, http.StatusOK, dtos)
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	return OrderResponseDTO{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		SessionID:         o.SourceSessionID,
		Status:            string(o.Status),
		FulfillmentStatus: string(o.FulfillmentStatus),
		PaymentStatus:     string(o.PaymentStatus),
		Amount:            o.Amount,
		Currency:          o.Currency,
		CreatedAt:         o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
