package entity

// Plan is the subscription tier stored in user_type.
type Plan string

const (
	PlanFree  Plan = "FREE"
	PlanPro   Plan = "PRO"
	PlanDegen Plan = "DEGEN"
)
