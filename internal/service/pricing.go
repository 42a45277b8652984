package service

import (
	"fmt"
	"math"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
)

// currencyExponents lists currencies whose minor unit is not 1/100.
// Anything absent defaults to two decimal places.
var currencyExponents = map[string]int{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
}

// PricingResolver maps product + billing cycle + quantity to a charge
// amount in the currency's minor unit. Pure: no side effects, same
// inputs always produce the same output.
type PricingResolver struct{}

func NewPricingResolver() *PricingResolver {
	return &PricingResolver{}
}

func (r *PricingResolver) Resolve(product *domain.Product, cycle domain.BillingCycle, quantity int) (int64, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	if !cycle.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBillingCycle, cycle)
	}

	unit, ok := product.PriceFor(cycle)
	if !ok {
		return 0, fmt.Errorf("%w: product %s has no %s price", ErrUnsupportedBillingCycle, product.ID, cycle)
	}
	if unit < 0 {
		return 0, fmt.Errorf("%w: product %s has a negative %s price", ErrUnsupportedBillingCycle, product.ID, cycle)
	}

	factor := math.Pow10(exponentFor(product.Currency))
	raw := math.Floor(unit*float64(quantity)*factor + 0.5)
	// guard the float->int64 conversion; past MaxInt64 it wraps negative
	if raw >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: amount overflows for quantity %d", ErrInvalidQuantity, quantity)
	}
	return int64(raw), nil
}

func exponentFor(currency string) int {
	if exp, ok := currencyExponents[currency]; ok {
		return exp
	}
	return 2
}
