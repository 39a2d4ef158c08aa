// Package rules resolves the temporal eligibility rules the streak engine
// consumes: which calendar days are rest days, which quota groups govern a
// date, and the rest-day-adjusted achieved-day target per week.
package rules

import (
	"time"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

// scope precedence: a daily rule beats a weekly rule beats a monthly rule.
var scopeRank = map[domain.RuleScope]int{
	domain.ScopeDaily:   0,
	domain.ScopeWeekly:  1,
	domain.ScopeMonthly: 2,
}

// Resolver answers date-keyed rule questions over an immutable snapshot of
// rules and group configurations. Build a fresh one whenever settings
// change; it caches nothing beyond the slices it was given.
type Resolver struct {
	rules  []domain.Rule
	groups []domain.GroupConfig
}

// NewResolver creates a resolver over the given rule and group snapshots.
func NewResolver(rs []domain.Rule, gs []domain.GroupConfig) *Resolver {
	return &Resolver{rules: rs, groups: gs}
}

// resolve returns the highest-precedence rule matching day, if any.
func (r *Resolver) resolve(day time.Time) (domain.Rule, bool) {
	var best domain.Rule
	found := false
	for _, rule := range r.rules {
		if !rule.ActiveOn(day) || !rule.Matches(day) {
			continue
		}
		if !found || scopeRank[rule.Scope] < scopeRank[best.Scope] {
			best = rule
			found = true
		}
	}
	return best, found
}

// IsRestDay reports whether the governing rule marks day as a rest day.
func (r *Resolver) IsRestDay(day time.Time) bool {
	rule, ok := r.resolve(day)
	return ok && rule.RestDay
}

// ActiveGroups returns the group configs whose validity window contains day.
func (r *Resolver) ActiveGroups(day time.Time) []domain.GroupConfig {
	var active []domain.GroupConfig
	for _, g := range r.groups {
		if g.ActiveOn(day) {
			active = append(active, g)
		}
	}
	return active
}

// WeeklyTarget derives the achieved-day target for the Monday-anchored week
// containing day: each non-rest day contributes 1, except that the days of
// a quota group collapse into the group's required count.
func (r *Resolver) WeeklyTarget(day time.Time) int {
	ws := weekStart(day)
	target := 0
	counted := make(map[string]bool) // group IDs already priced in
	for i := 0; i < 7; i++ {
		d := ws.AddDate(0, 0, i)
		if r.IsRestDay(d) {
			continue
		}
		grouped := false
		for _, g := range r.ActiveGroups(d) {
			if !g.Covers(d.Weekday()) {
				continue
			}
			grouped = true
			if !counted[g.ID] {
				counted[g.ID] = true
				target += g.RequiredCount
			}
			break
		}
		if !grouped {
			target++
		}
	}
	return target
}

// weekStart returns the Monday beginning day's week.
func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
