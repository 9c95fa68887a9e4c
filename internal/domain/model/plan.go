package model

import "time"

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func (c BillingCycle) Valid() bool {
	return c == BillingCycleMonthly || c == BillingCycleYearly
}

// Plan is a purchasable subscription tier. The catalog is static configuration
// loaded once at process start; prices are stored in kobo to avoid float errors.
type Plan struct {
	ID               string
	Name             string
	MonthlyPriceKobo int64
	YearlyPriceKobo  int64
}

func (p Plan) IsZero() bool { return p.ID == "" }

// PriceFor returns the price in kobo for a billing cycle.
func (p Plan) PriceFor(cycle BillingCycle) int64 {
	if cycle == BillingCycleYearly {
		return p.YearlyPriceKobo
	}
	return p.MonthlyPriceKobo
}

type ProductType string

const (
	ProductAnnualPrepaid ProductType = "annual_prepaid"
	ProductLifetime      ProductType = "lifetime"
)

// Product is a one-time purchase alternative to a recurring subscription.
// PlanEquivalent names the plan whose permissions the purchase grants.
type Product struct {
	Type           ProductType
	Name           string
	PriceKobo      int64
	PlanEquivalent string
}

func (p Product) IsZero() bool { return p.Type == "" }

var plans = map[string]Plan{
	"starter": {
		ID:               "starter",
		Name:             "Starter",
		MonthlyPriceKobo: 500_000,   // NGN 5,000
		YearlyPriceKobo:  5_000_000, // NGN 50,000
	},
	"pro": {
		ID:               "pro",
		Name:             "Pro",
		MonthlyPriceKobo: 1_500_000,
		YearlyPriceKobo:  15_000_000,
	},
	"enterprise": {
		ID:               "enterprise",
		Name:             "Enterprise",
		MonthlyPriceKobo: 5_000_000,
		YearlyPriceKobo:  50_000_000,
	},
}

var products = map[ProductType]Product{
	ProductAnnualPrepaid: {
		Type:           ProductAnnualPrepaid,
		Name:           "Annual Prepaid",
		PriceKobo:      12_000_000,
		PlanEquivalent: "pro",
	},
	ProductLifetime: {
		Type:           ProductLifetime,
		Name:           "Lifetime",
		PriceKobo:      50_000_000,
		PlanEquivalent: "enterprise",
	},
}

// PlanByID looks up a plan in the static catalog.
func PlanByID(id string) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

// ProductByType looks up a one-time product in the static catalog.
func ProductByType(t ProductType) (Product, bool) {
	p, ok := products[t]
	return p, ok
}

// NextPeriodEnd computes the end of a billing period starting at from.
func NextPeriodEnd(from time.Time, cycle BillingCycle) time.Time {
	if cycle == BillingCycleYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

// PlanPermissions is the static feature/limit table for a plan.
// MaxClients nil means unlimited.
type PlanPermissions struct {
	MaxClients       *int
	CanSendInvoices  bool
	CanExportReports bool
	CanUseRecurring  bool
	PrioritySupport  bool
}

var permissions = map[string]PlanPermissions{
	"starter": {
		MaxClients:      intPtr(5),
		CanSendInvoices: true,
	},
	"pro": {
		MaxClients:       intPtr(50),
		CanSendInvoices:  true,
		CanExportReports: true,
		CanUseRecurring:  true,
	},
	"enterprise": {
		MaxClients:       nil,
		CanSendInvoices:  true,
		CanExportReports: true,
		CanUseRecurring:  true,
		PrioritySupport:  true,
	},
}

// PermissionsFor resolves the permission table for a plan ID. An empty or
// unknown plan yields the most restrictive table: zero clients, no features.
func PermissionsFor(planID string) PlanPermissions {
	if p, ok := permissions[planID]; ok {
		return p
	}
	return PlanPermissions{MaxClients: intPtr(0)}
}

func intPtr(v int) *int { return &v }
