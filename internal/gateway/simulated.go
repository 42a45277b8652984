package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// OutcomeFunc decides the settlement result of a simulated charge.
type OutcomeFunc func() PaymentStatus

// RandomOutcome succeeds ~95% of the time.
func RandomOutcome() PaymentStatus {
	if rand.Intn(100) < 95 {
		return StatusSucceeded
	}
	return StatusFailed
}

// Simulated is an in-process gateway for development and tests. The
// outcome of each intent is fixed at creation time.
type Simulated struct {
	mu      sync.Mutex
	intents map[string]PaymentStatus
	outcome OutcomeFunc
}

func NewSimulated() *Simulated {
	return NewSimulatedWithOutcome(RandomOutcome)
}

func NewSimulatedWithOutcome(outcome OutcomeFunc) *Simulated {
	return &Simulated{
		intents: make(map[string]PaymentStatus),
		outcome: outcome,
	}
}

func (s *Simulated) CreatePaymentIntent(_ context.Context, amount int64, currency string, _ Metadata) (*PaymentIntent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrDeclined)
	}
	if currency == "" {
		return nil, fmt.Errorf("%w: missing currency", ErrDeclined)
	}

	ref := "pi_sim_" + uuid.NewString()

	s.mu.Lock()
	s.intents[ref] = s.outcome()
	s.mu.Unlock()

	return &PaymentIntent{
		Ref:          ref,
		ClientSecret: ref + "_secret_" + uuid.NewString(),
	}, nil
}

func (s *Simulated) GetPaymentStatus(_ context.Context, ref string) (PaymentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.intents[ref]
	if !ok {
		return "", fmt.Errorf("unknown payment intent %q", ref)
	}
	return status, nil
}
