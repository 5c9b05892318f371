package account

import "time"

// Plan is the closed set of subscription tiers.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanCreator Plan = "creator"
	PlanPro     Plan = "pro"
)

// Allowance returns the monthly processing allowance for the plan. Unknown
// values map to 0 so an unrecognized tier fails closed at the quota gate.
func (p Plan) Allowance() int {
	switch p {
	case PlanFree:
		return 3
	case PlanCreator:
		return 30
	case PlanPro:
		return 9999
	default:
		return 0
	}
}

// Valid reports whether p is one of the known tiers.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanCreator, PlanPro:
		return true
	}
	return false
}

// ParsePlan maps a stored string onto a Plan without losing unknown values;
// callers decide whether an unknown plan is an error or a zero allowance.
func ParsePlan(s string) Plan {
	return Plan(s)
}

// Account represents a user keyed by email. Accounts are created on first
// sight with the free plan and are only mutated by the billing webhook path.
type Account struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Plan      Plan      `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
