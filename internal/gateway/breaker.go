package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Breaker wraps a PaymentGateway with circuit breakers so a flapping
// provider fails fast instead of tying up request handlers. An open
// breaker surfaces as ErrUnavailable, which callers treat as retryable.
type Breaker struct {
	inner  PaymentGateway
	create *gobreaker.CircuitBreaker[*PaymentIntent]
	status *gobreaker.CircuitBreaker[PaymentStatus]
}

func WithBreaker(inner PaymentGateway, name string) *Breaker {
	settings := func(op string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name + ":" + op,
			MaxRequests: 3,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// A decline is a healthy provider answering; only transport
			// level failures should trip the breaker.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrDeclined)
			},
		}
	}
	return &Breaker{
		inner:  inner,
		create: gobreaker.NewCircuitBreaker[*PaymentIntent](settings("create")),
		status: gobreaker.NewCircuitBreaker[PaymentStatus](settings("status")),
	}
}

func (b *Breaker) CreatePaymentIntent(ctx context.Context, amount int64, currency string, meta Metadata) (*PaymentIntent, error) {
	intent, err := b.create.Execute(func() (*PaymentIntent, error) {
		return b.inner.CreatePaymentIntent(ctx, amount, currency, meta)
	})
	return intent, wrapBreakerErr(err)
}

func (b *Breaker) GetPaymentStatus(ctx context.Context, ref string) (PaymentStatus, error) {
	status, err := b.status.Execute(func() (PaymentStatus, error) {
		return b.inner.GetPaymentStatus(ctx, ref)
	})
	return status, wrapBreakerErr(err)
}

func wrapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
