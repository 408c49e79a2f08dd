package domain

import (
	"strings"
	"time"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
)

// UnlimitedRequests is the DailyRequests sentinel for plans without a quota.
const UnlimitedRequests int64 = -1

type PlanDetails struct {
	ExpirationDays int   // 0 表示永不过期
	DailyRequests  int64 // UnlimitedRequests 表示无限
}

var planCatalog = map[entity.Plan]PlanDetails{
	entity.PlanFree: {
		ExpirationDays: 0,
		DailyRequests:  10,
	},
	entity.PlanPro: {
		ExpirationDays: 30,
		DailyRequests:  50,
	},
	entity.PlanDegen: {
		ExpirationDays: 30,
		DailyRequests:  UnlimitedRequests,
	},
}

// Plans lists the catalog in display order.
func Plans() []entity.Plan {
	return []entity.Plan{entity.PlanFree, entity.PlanPro, entity.PlanDegen}
}

// DetailsOf returns the catalog entry for plan. Callers outside the catalog
// should validate with IsValidPlan or ParsePlan first; an unknown plan gets
// the Free entry.
func DetailsOf(plan entity.Plan) PlanDetails {
	if d, ok := planCatalog[plan]; ok {
		return d
	}
	return planCatalog[entity.PlanFree]
}

// IsValidPlan reports whether value is exactly one of the plan identifiers.
func IsValidPlan(value string) bool {
	_, ok := planCatalog[entity.Plan(value)]
	return ok
}

// ParsePlan matches text case-insensitively against the plan identifiers.
func ParsePlan(text string) (entity.Plan, bool) {
	p := entity.Plan(strings.ToUpper(strings.TrimSpace(text)))
	if _, ok := planCatalog[p]; !ok {
		return "", false
	}
	return p, true
}

// ExpirationFrom returns nil for non-expiring plans, otherwise now plus the plan window.
func ExpirationFrom(plan entity.Plan, now time.Time) *time.Time {
	days := DetailsOf(plan).ExpirationDays
	if days == 0 {
		return nil
	}
	exp := now.UTC().AddDate(0, 0, days)
	return &exp
}

// Grant computes the quota and expiration assigned when plan takes effect at now.
func Grant(plan entity.Plan, now time.Time) (int64, *time.Time) {
	return DetailsOf(plan).DailyRequests, ExpirationFrom(plan, now)
}
