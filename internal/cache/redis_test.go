package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

func setupRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCache(client), mr
}

func proPlan() *domain.Product {
	monthly := 15.00
	return &domain.Product{
		ID:           "prod-pro-plan",
		Name:         "Pro Plan",
		Type:         domain.ProductTypeDigital,
		Currency:     "USD",
		BasePrice:    25.00,
		MonthlyPrice: &monthly,
		Active:       true,
	}
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, proPlan()))

	got, err := c.Get(ctx, "prod-pro-plan")
	require.NoError(t, err)
	assert.Equal(t, "Pro Plan", got.Name)
	require.NotNil(t, got.MonthlyPrice)
	assert.Equal(t, 15.00, *got.MonthlyPrice)
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := setupRedisCache(t)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, proPlan()))
	require.NoError(t, c.Delete(ctx, "prod-pro-plan"))

	_, err := c.Get(ctx, "prod-pro-plan")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_EntryExpires(t *testing.T) {
	c, mr := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, proPlan()))
	mr.FastForward(c.baseTTL + 6*time.Minute)

	_, err := c.Get(ctx, "prod-pro-plan")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

type stubCache struct {
	getErr error
	setErr error
	stored map[string]*domain.Product
}

func (s *stubCache) Get(_ context.Context, id string) (*domain.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if p, ok := s.stored[id]; ok {
		return p, nil
	}
	return nil, ErrCacheMiss
}

func (s *stubCache) Set(_ context.Context, product *domain.Product) error {
	if s.setErr != nil {
		return s.setErr
	}
	if s.stored == nil {
		s.stored = make(map[string]*domain.Product)
	}
	s.stored[product.ID] = product
	return nil
}

func (s *stubCache) Delete(_ context.Context, id string) error {
	delete(s.stored, id)
	return nil
}

func TestCachedProductStore_ReadThrough(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.SeedProducts(proPlan())
	sc := &stubCache{}
	cached := NewCachedProductStore(mem, sc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	got, err := cached.GetProduct(ctx, "prod-pro-plan")
	require.NoError(t, err)
	assert.Equal(t, "Pro Plan", got.Name)

	// the miss populated the cache
	assert.Contains(t, sc.stored, "prod-pro-plan")
}

func TestCachedProductStore_ServesFromCache(t *testing.T) {
	mem := store.NewMemoryStore() // catalog is empty
	sc := &stubCache{stored: map[string]*domain.Product{"prod-pro-plan": proPlan()}}
	cached := NewCachedProductStore(mem, sc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got, err := cached.GetProduct(context.Background(), "prod-pro-plan")
	require.NoError(t, err)
	assert.Equal(t, "Pro Plan", got.Name)
}

func TestCachedProductStore_CacheFailureFallsThrough(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.SeedProducts(proPlan())
	sc := &stubCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	cached := NewCachedProductStore(mem, sc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got, err := cached.GetProduct(context.Background(), "prod-pro-plan")
	require.NoError(t, err)
	assert.Equal(t, "Pro Plan", got.Name)
}

func TestCachedProductStore_NotFoundPassesThrough(t *testing.T) {
	mem := store.NewMemoryStore()
	cached := NewCachedProductStore(mem, &stubCache{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := cached.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}
