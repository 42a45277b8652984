package service

import "errors"

var (
	ErrInvalidQuantity         = errors.New("quantity must be at least 1")
	ErrInvalidBillingCycle     = errors.New("invalid billing cycle")
	ErrUnsupportedBillingCycle = errors.New("product does not support requested billing cycle")
	ErrInvalidSessionState     = errors.New("operation not allowed in current session state")
	ErrPaymentNotSettled       = errors.New("payment has not settled yet")
	ErrPaymentDeclined         = errors.New("payment was declined by the provider")
	ErrOrderCreationFailed     = errors.New("failed to create order")
)
