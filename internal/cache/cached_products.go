package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

// CachedProductStore is a read-through cache in front of the catalog.
// Cache failures degrade to direct reads, never to request failures.
type CachedProductStore struct {
	products store.ProductStore
	cache    ProductCache
	log      *slog.Logger
}

func NewCachedProductStore(products store.ProductStore, cache ProductCache, log *slog.Logger) *CachedProductStore {
	return &CachedProductStore{
		products: products,
		cache:    cache,
		log:      log,
	}
}

func (c *CachedProductStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := c.cache.Get(ctx, id)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("product cache read failed", slog.String("product_id", id), slog.Any("error", err))
	}

	product, err = c.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, product); err != nil {
		c.log.Warn("product cache write failed", slog.String("product_id", id), slog.Any("error", err))
	}
	return product, nil
}
