package gateway

import (
	"context"
	"errors"
)

// PaymentStatus is the authoritative state the provider reports for an
// intent. The provider is trusted for correctness of this value but not
// for latency or availability.
type PaymentStatus string

const (
	StatusSucceeded PaymentStatus = "succeeded"
	StatusPending   PaymentStatus = "pending"
	StatusFailed    PaymentStatus = "failed"
)

var (
	// ErrUnavailable covers transport failures, timeouts and an open
	// circuit breaker. Recoverable: the caller may retry.
	ErrUnavailable = errors.New("payment gateway unavailable")

	// ErrDeclined is a provider-reported refusal, terminal for the charge.
	ErrDeclined = errors.New("payment declined by provider")
)

type Metadata map[string]string

// PaymentIntent is the gateway handle for an in-progress charge.
// ClientSecret is opaque and passed through to the client untouched.
type PaymentIntent struct {
	Ref          string
	ClientSecret string
}

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, meta Metadata) (*PaymentIntent, error)
	GetPaymentStatus(ctx context.Context, ref string) (PaymentStatus, error)
}
