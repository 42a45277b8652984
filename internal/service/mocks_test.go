package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/gateway"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

// MockGateway implements gateway.PaymentGateway for testing
type MockGateway struct {
	mu           sync.Mutex
	CreateIntent *gateway.PaymentIntent
	CreateErr    error
	Status       gateway.PaymentStatus
	StatusErr    error

	CreateCalls int
	StatusCalls int
}

func (m *MockGateway) CreatePaymentIntent(_ context.Context, _ int64, _ string, _ gateway.Metadata) (*gateway.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return m.CreateIntent, nil
}

func (m *MockGateway) GetPaymentStatus(_ context.Context, _ string) (gateway.PaymentStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusCalls++
	if m.StatusErr != nil {
		return "", m.StatusErr
	}
	return m.Status, nil
}

// MockPublisher records published orders
type MockPublisher struct {
	mu        sync.Mutex
	Published []*domain.Order
	Err       error
}

func (m *MockPublisher) PublishOrderCreated(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, order)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// FailingOrderStore wraps a real store and fails CreateOrder on demand
type FailingOrderStore struct {
	store.OrderStore
	CreateErr error
}

func (f *FailingOrderStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	return f.OrderStore.CreateOrder(ctx, order)
}

// newTestCheckoutService wires a fully working service over in-memory
// stores with a seeded catalog.
func newTestCheckoutService(gw gateway.PaymentGateway) (*CheckoutService, *store.MemoryStore, *MockPublisher) {
	mem := store.NewMemoryStore()
	monthly := 15.00
	yearly := 150.00
	mem.SeedProducts(
		&domain.Product{
			ID:           "P1",
			Name:         "Pro Plan",
			Type:         domain.ProductTypeDigital,
			Currency:     "USD",
			BasePrice:    25.00,
			MonthlyPrice: &monthly,
			YearlyPrice:  &yearly,
			Active:       true,
		},
		&domain.Product{
			ID:        "P2",
			Name:      "Basic Tee",
			Type:      domain.ProductTypePhysical,
			Currency:  "USD",
			BasePrice: 19.99,
			Active:    true,
		},
		&domain.Product{
			ID:        "P3",
			Name:      "Retired Item",
			Type:      domain.ProductTypePhysical,
			Currency:  "USD",
			BasePrice: 9.99,
			Active:    false,
		},
	)

	pub := &MockPublisher{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	materializer := NewOrderMaterializer(mem, pub, log)
	svc := NewCheckoutService(mem, mem, gw, materializer, 30*time.Minute, 5*time.Second, log)
	return svc, mem, pub
}
