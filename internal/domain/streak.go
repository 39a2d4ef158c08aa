package domain

import "time"

// StreakResult is the output of one streak computation over a snapshot.
// ShieldDays and RevivalDays are the complete sorted day sets
// ("YYYY-MM-DD"), not limited to the scan window.
type StreakResult struct {
	CurrentStreak int      `json:"current_streak"`
	ShieldDays    []string `json:"shield_days"`
	RevivalDays   []string `json:"revival_days"`
}

// GroupConfig is a weekly quota group: a set of weekdays of which only
// RequiredCount need to be completed each week. Validity is the half-open
// window [EffectiveFrom, EffectiveTo).
type GroupConfig struct {
	ID            string         `json:"id"`
	DaysOfWeek    []time.Weekday `json:"days_of_week"` // 0 = Sunday
	RequiredCount int            `json:"required_count"`
	EffectiveFrom time.Time      `json:"effective_from"`
	EffectiveTo   *time.Time     `json:"effective_to"` // nil = open-ended
}

// ActiveOn reports whether the config's validity window contains day.
func (g GroupConfig) ActiveOn(day time.Time) bool {
	if day.Before(g.EffectiveFrom) {
		return false
	}
	return g.EffectiveTo == nil || day.Before(*g.EffectiveTo)
}

// Covers reports whether the group includes the given weekday.
func (g GroupConfig) Covers(wd time.Weekday) bool {
	for _, d := range g.DaysOfWeek {
		if d == wd {
			return true
		}
	}
	return false
}

// ShieldCondition selects how protection tokens are earned.
type ShieldCondition string

const (
	// ConditionStraightCount grants one token per RequiredWeeks perfect weeks.
	ConditionStraightCount ShieldCondition = "straight_count"
	// ConditionMonthlyAll is recognized in configuration but has no defined
	// semantics yet. Any attempt to save or evaluate it is rejected.
	ConditionMonthlyAll ShieldCondition = "monthly_all"
)

// Settings are the admin-configurable knobs of the engine's surroundings.
type Settings struct {
	ShieldCondition   ShieldCondition `json:"shield_condition"`
	RequiredWeeks     int             `json:"required_weeks"` // perfect weeks per token
	AllowRevivalWeeks bool            `json:"allow_revival_weeks"`
	AllowShieldWeeks  bool            `json:"allow_shield_weeks"`
	EffectiveFrom     *time.Time      `json:"effective_from"` // streak accounting start
}
