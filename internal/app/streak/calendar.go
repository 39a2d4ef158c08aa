// Package streak implements the FitProof streak engine: a deterministic,
// pure computation over an immutable submission snapshot. Given the history,
// a rest-day predicate and the active quota groups, it derives the current
// consecutive-activity streak, the protected and backdated day sets, and the
// lifetime count of perfect weeks.
//
// The package performs no I/O and holds no state; identical input always
// yields identical output.
package streak

import (
	"time"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

// dayKeyFormat is the canonical calendar-day string used in all day sets.
const dayKeyFormat = "2006-01-02"

// RestDayFn reports whether a calendar day is a rest day. Rest days are
// transparent to the engine: they never break nor extend a streak.
type RestDayFn func(day time.Time) bool

// GroupsFn returns the quota groups whose validity window contains day.
// Whether the day's weekday belongs to a group is checked by the engine.
type GroupsFn func(day time.Time) []domain.GroupConfig

// TargetFn returns the rest-day-adjusted achieved-day target for the week
// containing day.
type TargetFn func(day time.Time) int

// DayOf truncates t to the start of its calendar day, keeping the location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey formats t's calendar day as "YYYY-MM-DD".
func DayKey(t time.Time) string {
	return t.Format(dayKeyFormat)
}

// WeekStart returns the Monday beginning the week that contains t,
// so Saturday and Sunday land in the same bucket as the preceding weekdays.
func WeekStart(t time.Time) time.Time {
	day := DayOf(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// weekdayDate returns the date of weekday wd inside the Monday-anchored
// week starting at ws.
func weekdayDate(ws time.Time, wd time.Weekday) time.Time {
	offset := (int(wd) + 6) % 7
	return ws.AddDate(0, 0, offset)
}

// groupFor returns the group governing day, if any: a config that is both
// valid on the day and covers its weekday. Configuration writes guarantee
// at most one such group per day; the first match wins.
func groupFor(groups GroupsFn, day time.Time) (domain.GroupConfig, bool) {
	if groups == nil {
		return domain.GroupConfig{}, false
	}
	for _, g := range groups(day) {
		if g.ActiveOn(day) && g.Covers(day.Weekday()) {
			return g, true
		}
	}
	return domain.GroupConfig{}, false
}

// weekGroupKey buckets a (day, group) pair by Monday week-start and group ID.
func weekGroupKey(day time.Time, groupID string) string {
	return DayKey(WeekStart(day)) + "|" + groupID
}
