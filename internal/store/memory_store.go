package store

import (
	"context"
	"sync"
	"time"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
)

// MemoryStore implements SessionStore, OrderStore and ProductStore with
// in-memory maps. Used by tests and the memory backend in development.
// Expiry is not swept in the background; the orchestrator checks it
// lazily on every read.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.CheckoutSession
	orders   map[string]*domain.Order // keyed by order id
	bySource map[string]string        // source session id -> order id
	byNumber map[string]string        // order number -> order id
	products map[string]*domain.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.CheckoutSession),
		orders:   make(map[string]*domain.Order),
		bySource: make(map[string]string),
		byNumber: make(map[string]string),
		products: make(map[string]*domain.Product),
	}
}

// SeedProducts loads catalog entries, replacing any with the same id.
func (s *MemoryStore) SeedProducts(products ...*domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
}

func (s *MemoryStore) CreateSession(_ context.Context, session *domain.CheckoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (*domain.CheckoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *MemoryStore) UpdateSessionStatus(_ context.Context, id string, from, to domain.SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if session.Status != from {
		return ErrStaleStatus
	}
	session.Status = to
	session.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) SetPaymentRef(_ context.Context, id string, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if session.Status != domain.SessionStatusCreated || session.ExternalPaymentRef != nil {
		return ErrStaleStatus
	}
	session.Status = domain.SessionStatusPaymentPending
	session.ExternalPaymentRef = &ref
	session.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) MarkExpired(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if session.Status.IsTerminal() {
		return ErrStaleStatus
	}
	session.Status = domain.SessionStatusExpired
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// SetSessionExpiry adjusts expiresAt directly. Test helper.
func (s *MemoryStore) SetSessionExpiry(id string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		session.ExpiresAt = expiresAt
	}
}

func (s *MemoryStore) CreateOrder(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bySource[order.SourceSessionID]; exists {
		return ErrDuplicateSession
	}
	cp := *order
	s.orders[order.ID] = &cp
	s.bySource[order.SourceSessionID] = order.ID
	s.byNumber[order.OrderNumber] = order.ID
	return nil
}

func (s *MemoryStore) GetOrderBySessionID(_ context.Context, sessionID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySource[sessionID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *s.orders[id]
	return &cp, nil
}

func (s *MemoryStore) GetOrderByNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNumber[orderNumber]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *s.orders[id]
	return &cp, nil
}

func (s *MemoryStore) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]*domain.Order, 0)
	for _, order := range s.orders {
		if order.UserID == userID {
			cp := *order
			orders = append(orders, &cp)
		}
	}
	return orders, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *product
	return &cp, nil
}
