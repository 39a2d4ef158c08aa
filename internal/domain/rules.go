package domain

import "time"

// RuleScope orders rule precedence: daily beats weekly beats monthly.
type RuleScope string

const (
	ScopeDaily   RuleScope = "daily"
	ScopeWeekly  RuleScope = "weekly"
	ScopeMonthly RuleScope = "monthly"
)

// Rule marks calendar days as rest days at one of three scopes.
//   - daily:   applies to exactly Date
//   - weekly:  applies to every Weekday
//   - monthly: applies to every DayOfMonth
//
// Exactly one selector is meaningful per scope; the others are ignored.
// Validity is the half-open window [EffectiveFrom, EffectiveTo).
type Rule struct {
	ID            string     `json:"id"`
	Scope         RuleScope  `json:"scope"`
	Date          *time.Time `json:"date,omitempty"`
	Weekday       *int       `json:"weekday,omitempty"` // 0 = Sunday
	DayOfMonth    *int       `json:"day_of_month,omitempty"`
	RestDay       bool       `json:"rest_day"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
}

// ActiveOn reports whether the rule's validity window contains day.
func (r Rule) ActiveOn(day time.Time) bool {
	if day.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || day.Before(*r.EffectiveTo)
}

// Matches reports whether the rule's selector picks the given day.
// Validity is checked separately via ActiveOn.
func (r Rule) Matches(day time.Time) bool {
	switch r.Scope {
	case ScopeDaily:
		return r.Date != nil &&
			r.Date.Year() == day.Year() && r.Date.YearDay() == day.YearDay()
	case ScopeWeekly:
		return r.Weekday != nil && time.Weekday(*r.Weekday) == day.Weekday()
	case ScopeMonthly:
		return r.DayOfMonth != nil && *r.DayOfMonth == day.Day()
	}
	return false
}
