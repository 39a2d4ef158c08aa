package streak

import (
	"sort"
	"time"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

// DefaultWindowDays bounds the backward streak walk. 90 days matches the
// product's practical retention; it is a cost bound, not a correctness
// requirement, and callers with longer-lived streaks can raise it.
const DefaultWindowDays = 90

// Options tune one streak computation.
type Options struct {
	// Today anchors the scan window. Zero means time.Now() truncated to
	// the start of the current calendar day.
	Today time.Time
	// EffectiveFrom, when set, ends the walk at dates before it.
	EffectiveFrom *time.Time
	// Groups supplies the active quota groups per date. Nil disables
	// group handling.
	Groups GroupsFn
	// WindowDays overrides DefaultWindowDays when positive.
	WindowDays int
}

func (o Options) today() time.Time {
	if o.Today.IsZero() {
		return DayOf(time.Now())
	}
	return DayOf(o.Today)
}

func (o Options) window() int {
	if o.WindowDays > 0 {
		return o.WindowDays
	}
	return DefaultWindowDays
}

// daySets are the three date-keyed sets every computation starts from.
type daySets struct {
	approved map[string]bool // success, non-shield
	revival  map[string]bool // approved subset submitted after the fact
	shield   map[string]bool // protection-token records, any status
}

// buildDaySets indexes the snapshot by calendar day. Rows without a target
// date are silently excluded; they can key nothing.
func buildDaySets(subs []domain.Submission) daySets {
	sets := daySets{
		approved: make(map[string]bool),
		revival:  make(map[string]bool),
		shield:   make(map[string]bool),
	}
	for _, s := range subs {
		if s.TargetDate == nil {
			continue
		}
		key := DayKey(*s.TargetDate)
		if s.Kind == domain.KindShield {
			// Presence of the record is the signal, not its status.
			sets.shield[key] = true
			continue
		}
		if s.Status == domain.StatusSuccess {
			sets.approved[key] = true
			if s.IsRevival {
				sets.revival[key] = true
			}
		}
	}
	return sets
}

// ComputeStreak derives the current consecutive-activity streak from the
// snapshot, walking backward from today through the scan window.
//
// Rest days are skipped. A shield-protected day preserves continuity
// without counting. A day inside an already-satisfied quota group is
// skipped rather than breaking the streak. Any other unprotected gap ends
// the walk.
func ComputeStreak(subs []domain.Submission, isRestDay RestDayFn, opts Options) domain.StreakResult {
	sets := buildDaySets(subs)
	today := opts.today()
	window := opts.window()

	// Forward pre-pass: per-(week, group) fulfillment counts. A group day
	// fulfills its quota when it is approved or protected.
	fulfilled := make(map[string]int)
	if opts.Groups != nil {
		for i := window - 1; i >= 0; i-- {
			day := today.AddDate(0, 0, -i)
			g, ok := groupFor(opts.Groups, day)
			if !ok {
				continue
			}
			key := DayKey(day)
			if sets.approved[key] || sets.shield[key] {
				fulfilled[weekGroupKey(day, g.ID)]++
			}
		}
	}

	// Backward walk, newest to oldest.
	consecutive := 0
walk:
	for i := 0; i < window; i++ {
		day := today.AddDate(0, 0, -i)
		if opts.EffectiveFrom != nil && day.Before(DayOf(*opts.EffectiveFrom)) {
			break
		}
		if isRestDay != nil && isRestDay(day) {
			continue
		}
		key := DayKey(day)
		if g, ok := groupFor(opts.Groups, day); ok && !sets.approved[key] && !sets.shield[key] {
			// Non-mandatory day inside a quota the group already met this
			// week: neither breaks nor extends the streak.
			if fulfilled[weekGroupKey(day, g.ID)] >= g.RequiredCount {
				continue
			}
		}
		switch {
		case sets.approved[key]:
			consecutive++
		case sets.shield[key]:
			// Protected day: continuity preserved, no extra count.
		default:
			break walk
		}
	}

	return domain.StreakResult{
		CurrentStreak: consecutive,
		ShieldDays:    sortedKeys(sets.shield),
		RevivalDays:   sortedKeys(sets.revival),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
