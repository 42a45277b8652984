package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tringuyen-psa/shopify-shop-sub004/internal/gateway"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/service"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}

// respondDomainError maps the service error taxonomy onto HTTP status
// codes: validation 400, not found 404, state conflicts 409, declined
// payments 402, gateway trouble 502.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, service.ErrInvalidBillingCycle):
		respondError(w, http.StatusBadRequest, "invalid_billing_cycle", err.Error())
	case errors.Is(err, service.ErrUnsupportedBillingCycle):
		respondError(w, http.StatusBadRequest, "unsupported_billing_cycle", err.Error())
	case errors.Is(err, store.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, store.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, store.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, service.ErrInvalidSessionState):
		respondError(w, http.StatusConflict, "invalid_session_state", err.Error())
	case errors.Is(err, service.ErrPaymentNotSettled):
		respondError(w, http.StatusConflict, "payment_not_settled", err.Error())
	case errors.Is(err, service.ErrPaymentDeclined), errors.Is(err, gateway.ErrDeclined):
		respondError(w, http.StatusPaymentRequired, "payment_declined", err.Error())
	case errors.Is(err, gateway.ErrUnavailable):
		respondError(w, http.StatusBadGateway, "gateway_unavailable", err.Error())
	case errors.Is(err, service.ErrOrderCreationFailed):
		respondError(w, http.StatusBadGateway, "order_creation_failed", err.Error())
	default:
		log.Printf("unhandled error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
