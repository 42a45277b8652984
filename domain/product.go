package domain

import "time"

type ProductType string

const (
	ProductTypePhysical ProductType = "physical"
	ProductTypeDigital  ProductType = "digital"
)

// Product is read-only to the checkout core; the catalog is owned elsewhere.
type Product struct {
	ID          string
	Name        string
	Description string
	Type        ProductType
	Currency    string
	BasePrice   float64

	// Per-cycle subscription prices. A nil price means the product
	// cannot be purchased on that cycle.
	WeeklyPrice  *float64
	MonthlyPrice *float64
	YearlyPrice  *float64

	Active    bool
	CreatedAt time.Time
}

// PriceFor returns the unit price for the requested billing cycle.
// The second return value is false when the product does not define
// a price for that cycle.
func (p *Product) PriceFor(cycle BillingCycle) (float64, bool) {
	switch cycle {
	case BillingCycleOneTime:
		return p.BasePrice, true
	case BillingCycleWeekly:
		if p.WeeklyPrice != nil {
			return *p.WeeklyPrice, true
		}
	case BillingCycleMonthly:
		if p.MonthlyPrice != nil {
			return *p.MonthlyPrice, true
		}
	case BillingCycleYearly:
		if p.YearlyPrice != nil {
			return *p.YearlyPrice, true
		}
	}
	return 0, false
}
