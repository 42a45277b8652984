package domain

// BillingCycle is the recurrence granularity of a priced item.
type BillingCycle string

const (
	BillingCycleOneTime BillingCycle = "one_time"
	BillingCycleWeekly  BillingCycle = "weekly"
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func (c BillingCycle) IsValid() bool {
	switch c {
	case BillingCycleOneTime, BillingCycleWeekly, BillingCycleMonthly, BillingCycleYearly:
		return true
	}
	return false
}

func (c BillingCycle) String() string {
	return string(c)
}
