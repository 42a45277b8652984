package domain

import "time"

type SessionStatus string

const (
	SessionStatusCreated        SessionStatus = "created"
	SessionStatusPaymentPending SessionStatus = "payment_pending"
	SessionStatusConfirmed      SessionStatus = "confirmed"
	SessionStatusFailed         SessionStatus = "failed"
	SessionStatusExpired        SessionStatus = "expired"
)

func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusConfirmed || s == SessionStatusFailed || s == SessionStatusExpired
}

// String representation (for logging)
func (s SessionStatus) String() string {
	return string(s)
}

// transitions is the full set of legal status moves. Status is monotonic:
// nothing leaves a terminal state.
var transitions = map[SessionStatus][]SessionStatus{
	SessionStatusCreated:        {SessionStatusPaymentPending, SessionStatusExpired},
	SessionStatusPaymentPending: {SessionStatusConfirmed, SessionStatusFailed, SessionStatusExpired},
}

func CanTransitionTo(from, to SessionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckoutSession is a time-bounded record of an intended purchase
// prior to order creation.
type CheckoutSession struct {
	ID           string
	ProductID    string
	Quantity     int
	BillingCycle BillingCycle
	Status       SessionStatus

	// Amount is the resolved price in the currency's minor unit,
	// immutable once the session is created.
	Amount   int64
	Currency string

	// ExternalPaymentRef is the payment intent id assigned by the
	// gateway, set at most once when payment begins.
	ExternalPaymentRef *string

	CreatedAt time.Time
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// IsExpiredAt reports whether the session should read back as expired.
// Terminal sessions never expire retroactively.
func (s *CheckoutSession) IsExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt) && !s.Status.IsTerminal()
}
