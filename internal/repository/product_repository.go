package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT id, name, description, product_type, currency, base_price, weekly_price, monthly_price, yearly_price, active, created_at
	          FROM products WHERE id = $1`

	var product domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Type,
		&product.Currency,
		&product.BasePrice,
		&product.WeeklyPrice,
		&product.MonthlyPrice,
		&product.YearlyPrice,
		&product.Active,
		&product.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &product, nil
}
