package streak

import (
	"time"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

// WeekOptions tune the perfect-week count.
type WeekOptions struct {
	// Today bounds the range. Zero means time.Now() truncated to the
	// start of the current calendar day.
	Today time.Time
	// AllowRevival lets backdated successes count as achieved days.
	AllowRevival bool
	// AllowShield lets protected days count as achieved days.
	AllowShield bool
	// ConfirmBefore, when set, counts only weeks whose Sunday falls
	// strictly before it, so the in-progress week is never judged early.
	ConfirmBefore *time.Time
}

func (o WeekOptions) today() time.Time {
	if o.Today.IsZero() {
		return DayOf(time.Now())
	}
	return DayOf(o.Today)
}

// CountPerfectWeeks counts Monday-to-Sunday weeks, from the earliest
// submission through today, whose achieved-day total met that week's
// target. The count is derived from scratch on every call; recomputing
// over the same snapshot always yields the same number.
func CountPerfectWeeks(subs []domain.Submission, isRestDay RestDayFn, weeklyTarget TargetFn, groups GroupsFn, opts WeekOptions) int {
	earliest, ok := earliestTargetDate(subs)
	if !ok {
		return 0
	}
	sets := buildDaySets(subs)
	today := opts.today()

	eligible := func(day time.Time) bool {
		key := DayKey(day)
		switch {
		case sets.approved[key] && !sets.revival[key]:
			return true
		case sets.revival[key]:
			return opts.AllowRevival
		case sets.shield[key]:
			return opts.AllowShield
		}
		return false
	}

	perfect := 0
	for ws := WeekStart(earliest); !ws.After(today); ws = ws.AddDate(0, 0, 7) {
		sunday := ws.AddDate(0, 0, 6)
		if opts.ConfirmBefore != nil && !sunday.Before(DayOf(*opts.ConfirmBefore)) {
			// Week not fully elapsed yet: neither counted nor penalized.
			continue
		}

		achieved := 0
		processed := make(map[string]bool) // group IDs handled this week
		for d := 0; d < 7; d++ {
			day := ws.AddDate(0, 0, d)
			if day.After(today) {
				break
			}
			if isRestDay != nil && isRestDay(day) {
				// Rest days are outside both the achieved and the required
				// accounting; the weekly target already excludes them.
				continue
			}
			g, grouped := groupFor(groups, day)
			if !grouped {
				if eligible(day) {
					achieved++
				}
				continue
			}
			if processed[g.ID] {
				continue
			}
			processed[g.ID] = true
			achieved += groupAchieved(g, ws, today, eligible)
		}

		if achieved >= weeklyTarget(ws) {
			perfect++
		}
	}
	return perfect
}

// groupAchieved sums the eligible days a group contributes within one week,
// clamped to the group's validity window and capped at its required count.
func groupAchieved(g domain.GroupConfig, ws, today time.Time, eligible func(time.Time) bool) int {
	sum := 0
	for _, wd := range g.DaysOfWeek {
		day := weekdayDate(ws, wd)
		if day.After(today) || !g.ActiveOn(day) {
			continue
		}
		if eligible(day) {
			sum++
		}
	}
	if sum > g.RequiredCount {
		sum = g.RequiredCount
	}
	return sum
}

// earliestTargetDate finds the oldest dated row in the snapshot.
func earliestTargetDate(subs []domain.Submission) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, s := range subs {
		if s.TargetDate == nil {
			continue
		}
		day := DayOf(*s.TargetDate)
		if !found || day.Before(earliest) {
			earliest = day
			found = true
		}
	}
	return earliest, found
}
