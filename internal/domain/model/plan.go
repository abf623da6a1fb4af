package model

import "food-spot-backend/internal/domain"

// SubscriptionPlan is one entry of the static plan catalog. Plans are defined
// in code, not persisted per-instance; payments reference them by ID only.
type SubscriptionPlan struct {
	ID             string
	Name           string
	Price          int64 // minor units
	CurrencyCode   string
	DurationInDays int
	Features       []string
}

func (p *SubscriptionPlan) IsZero() bool { return p == nil || p.ID == "" }

// SubscriptionPlans is the fixed catalog of purchasable plans.
var SubscriptionPlans = []SubscriptionPlan{
	{
		ID:             "monthly",
		Name:           "Monthly Premium",
		Price:          199,
		CurrencyCode:   "BDT",
		DurationInDays: 30,
		Features: []string{
			"Access to all premium food spots",
			"Write unlimited reviews",
			"Premium user badge",
			"No ads",
		},
	},
	{
		ID:             "quarterly",
		Name:           "Quarterly Premium",
		Price:          499,
		CurrencyCode:   "BDT",
		DurationInDays: 90,
		Features: []string{
			"Access to all premium food spots",
			"Write unlimited reviews",
			"Premium user badge",
			"No ads",
			"Priority support",
		},
	},
	{
		ID:             "yearly",
		Name:           "Yearly Premium",
		Price:          1499,
		CurrencyCode:   "BDT",
		DurationInDays: 365,
		Features: []string{
			"Access to all premium food spots",
			"Write unlimited reviews",
			"Premium user badge",
			"No ads",
			"Priority support",
			"Early access to new features",
		},
	},
}

// PlanByID looks a plan up in the catalog.
func PlanByID(id string) (*SubscriptionPlan, error) {
	for i := range SubscriptionPlans {
		if SubscriptionPlans[i].ID == id {
			p := SubscriptionPlans[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}
