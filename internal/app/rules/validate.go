package rules

import (
	"fmt"
	"time"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

// ValidateGroup checks a group configuration before it is persisted.
// The engine itself never validates: overlapping day assignments would
// silently double-count, so the write path is the only guard.
//
// Rejected: empty or out-of-range day sets, a required count outside
// [1, len(days)-1], day overlap with another group active in the same
// period, and days a weekly rest-day rule covers.
func ValidateGroup(g domain.GroupConfig, existing []domain.GroupConfig, rs []domain.Rule) error {
	if len(g.DaysOfWeek) < 2 {
		return fmt.Errorf("%w: need at least 2 days, got %d", domain.ErrInvalidGroupConfig, len(g.DaysOfWeek))
	}
	seen := make(map[time.Weekday]bool)
	for _, d := range g.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range", domain.ErrInvalidGroupConfig, d)
		}
		if seen[d] {
			return fmt.Errorf("%w: weekday %s listed twice", domain.ErrInvalidGroupConfig, d)
		}
		seen[d] = true
	}
	if g.RequiredCount < 1 || g.RequiredCount >= len(g.DaysOfWeek) {
		return fmt.Errorf("%w: required count %d outside [1, %d]",
			domain.ErrInvalidGroupConfig, g.RequiredCount, len(g.DaysOfWeek)-1)
	}

	for _, other := range existing {
		if other.ID == g.ID || !windowsOverlap(g, other) {
			continue
		}
		for _, d := range other.DaysOfWeek {
			if seen[d] {
				return fmt.Errorf("%w: %s is already assigned to group %s",
					domain.ErrGroupOverlap, d, other.ID)
			}
		}
	}

	// Weekly rest-day rules claim a weekday outright; a group may not.
	for _, rule := range rs {
		if rule.Scope != domain.ScopeWeekly || !rule.RestDay || rule.Weekday == nil {
			continue
		}
		if seen[time.Weekday(*rule.Weekday)] {
			return fmt.Errorf("%w: %s is a weekly rest day",
				domain.ErrGroupRestOverlap, time.Weekday(*rule.Weekday))
		}
	}
	return nil
}

// ValidateSettings rejects settings the engine cannot honor, in particular
// the monthly_all grant condition, whose semantics are not defined yet.
func ValidateSettings(s domain.Settings) error {
	switch s.ShieldCondition {
	case domain.ConditionStraightCount:
		if s.RequiredWeeks < 1 {
			return fmt.Errorf("required weeks must be at least 1, got %d", s.RequiredWeeks)
		}
		return nil
	case domain.ConditionMonthlyAll:
		return domain.ErrUnsupportedCondition
	default:
		return fmt.Errorf("unknown shield condition %q", s.ShieldCondition)
	}
}

// windowsOverlap reports whether two half-open validity windows intersect.
func windowsOverlap(a, b domain.GroupConfig) bool {
	if a.EffectiveTo != nil && !a.EffectiveTo.After(b.EffectiveFrom) {
		return false
	}
	if b.EffectiveTo != nil && !b.EffectiveTo.After(a.EffectiveFrom) {
		return false
	}
	return true
}
