package streak_test

import (
	"testing"
	"time"

	"github.com/mrcaqui/fit-proof-sub000/internal/app/streak"
	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

func fixedTarget(n int) streak.TargetFn {
	return func(time.Time) int { return n }
}

// ═══════════════════════════════════════════════════════════════════════════
// Perfect Week Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestCountPerfectWeeks_FullWeek(t *testing.T) {
	// Mon 2025-06-30 .. Sun 2025-07-06, all seven days approved.
	subs := successRange(t, "2025-06-30", "2025-07-06")

	got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), nil, streak.WeekOptions{
		Today: day(t, "2025-07-09"),
	})
	if got != 1 {
		t.Errorf("expected 1 perfect week, got %d", got)
	}
}

func TestCountPerfectWeeks_NoSubmissions(t *testing.T) {
	got := streak.CountPerfectWeeks(nil, noRest, fixedTarget(7), nil, streak.WeekOptions{
		Today: day(t, "2025-07-09"),
	})
	if got != 0 {
		t.Errorf("expected 0 weeks, got %d", got)
	}
}

func TestCountPerfectWeeks_MissedDayFailsWeek(t *testing.T) {
	subs := successRange(t, "2025-06-30", "2025-07-05") // Mon..Sat, Sunday missed

	got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), nil, streak.WeekOptions{
		Today: day(t, "2025-07-09"),
	})
	if got != 0 {
		t.Errorf("expected 0 perfect weeks, got %d", got)
	}
}

func TestCountPerfectWeeks_RestDayAdjustedTarget(t *testing.T) {
	// Wednesday is a rest day; the resolver hands the week a target of 6.
	rest := func(d time.Time) bool { return d.Weekday() == time.Wednesday }
	subs := []domain.Submission{
		success(t, "2025-06-30"), success(t, "2025-07-01"), // Mon Tue
		success(t, "2025-07-03"), success(t, "2025-07-04"), // Thu Fri
		success(t, "2025-07-05"), success(t, "2025-07-06"), // Sat Sun
	}

	got := streak.CountPerfectWeeks(subs, rest, fixedTarget(6), nil, streak.WeekOptions{
		Today: day(t, "2025-07-09"),
	})
	if got != 1 {
		t.Errorf("expected 1 perfect week with rest-adjusted target, got %d", got)
	}
}

func TestCountPerfectWeeks_GroupContributionCapped(t *testing.T) {
	// Weekend group requires 1 of 2 days; even with both days approved the
	// group contributes exactly 1, so the week's achieved total is 6.
	group := domain.GroupConfig{
		ID:            "weekend",
		DaysOfWeek:    []time.Weekday{time.Saturday, time.Sunday},
		RequiredCount: 1,
		EffectiveFrom: day(t, "2025-01-01"),
	}
	groups := func(time.Time) []domain.GroupConfig { return []domain.GroupConfig{group} }
	subs := successRange(t, "2025-06-30", "2025-07-06") // all 7 days

	// Target 6: five weekdays + the group's required 1.
	got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(6), groups, streak.WeekOptions{
		Today: day(t, "2025-07-09"),
	})
	if got != 1 {
		t.Errorf("expected 1 perfect week, got %d", got)
	}

	// A target of 7 is unreachable: the cap keeps the total at 6.
	got = streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), groups, streak.WeekOptions{
		Today: day(t, "2025-07-09"),
	})
	if got != 0 {
		t.Errorf("expected 0 perfect weeks above group cap, got %d", got)
	}
}

func TestCountPerfectWeeks_GroupSatisfiedByOneDay(t *testing.T) {
	group := domain.GroupConfig{
		ID:            "weekend",
		DaysOfWeek:    []time.Weekday{time.Saturday, time.Sunday},
		RequiredCount: 1,
		EffectiveFrom: day(t, "2025-01-01"),
	}
	groups := func(time.Time) []domain.GroupConfig { return []domain.GroupConfig{group} }
	subs := successRange(t, "2025-06-30", "2025-07-04") // Mon..Fri
	subs = append(subs, success(t, "2025-07-06"))       // Sunday only

	got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(6), groups, streak.WeekOptions{
		Today: day(t, "2025-07-09"),
	})
	if got != 1 {
		t.Errorf("expected 1 perfect week, got %d", got)
	}
}

func TestCountPerfectWeeks_RevivalFlag(t *testing.T) {
	subs := successRange(t, "2025-06-30", "2025-07-05")
	subs = append(subs, revivalSuccess(t, "2025-07-06")) // Sunday made up later
	opts := streak.WeekOptions{Today: day(t, "2025-07-09")}

	opts.AllowRevival = false
	if got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), nil, opts); got != 0 {
		t.Errorf("expected 0 weeks with revival excluded, got %d", got)
	}

	opts.AllowRevival = true
	if got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), nil, opts); got != 1 {
		t.Errorf("expected 1 week with revival allowed, got %d", got)
	}
}

func TestCountPerfectWeeks_ShieldFlag(t *testing.T) {
	subs := successRange(t, "2025-06-30", "2025-07-05")
	subs = append(subs, shieldRecord(t, "2025-07-06"))
	opts := streak.WeekOptions{Today: day(t, "2025-07-09")}

	opts.AllowShield = false
	if got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), nil, opts); got != 0 {
		t.Errorf("expected 0 weeks with shields excluded, got %d", got)
	}

	opts.AllowShield = true
	if got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), nil, opts); got != 1 {
		t.Errorf("expected 1 week with shields allowed, got %d", got)
	}
}

func TestCountPerfectWeeks_ConfirmBeforeSkipsCurrentWeek(t *testing.T) {
	// Two full weeks plus the start of a third. Confirming before Wednesday
	// of the third week counts only the two elapsed ones.
	subs := successRange(t, "2025-06-23", "2025-07-08")
	confirm := day(t, "2025-07-09")

	got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), nil, streak.WeekOptions{
		Today:         day(t, "2025-07-09"),
		ConfirmBefore: &confirm,
	})
	if got != 2 {
		t.Errorf("expected 2 confirmed weeks, got %d", got)
	}
}

func TestCountPerfectWeeks_MultipleWeeks(t *testing.T) {
	// Three weeks: perfect, broken (Thursday missed), perfect.
	var subs []domain.Submission
	subs = append(subs, successRange(t, "2025-06-16", "2025-06-22")...)
	subs = append(subs, successRange(t, "2025-06-23", "2025-06-25")...)
	subs = append(subs, successRange(t, "2025-06-27", "2025-06-29")...)
	subs = append(subs, successRange(t, "2025-06-30", "2025-07-06")...)

	got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), nil, streak.WeekOptions{
		Today: day(t, "2025-07-09"),
	})
	if got != 2 {
		t.Errorf("expected 2 perfect weeks of 3, got %d", got)
	}
}

func TestCountPerfectWeeks_Idempotent(t *testing.T) {
	subs := successRange(t, "2025-06-16", "2025-07-06")
	opts := streak.WeekOptions{Today: day(t, "2025-07-09"), AllowRevival: true, AllowShield: true}

	first := streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), nil, opts)
	second := streak.CountPerfectWeeks(subs, noRest, fixedTarget(7), nil, opts)
	if first != second {
		t.Errorf("counts differ across identical runs: %d vs %d", first, second)
	}
}

func TestCountPerfectWeeks_GroupValidityClamped(t *testing.T) {
	// The group only becomes effective mid-week (Saturday). Its Sunday is
	// within the window, Saturday of the previous week is not relevant, and
	// days before effectiveFrom contribute nothing through the group.
	from := day(t, "2025-07-05") // Saturday
	group := domain.GroupConfig{
		ID:            "weekend",
		DaysOfWeek:    []time.Weekday{time.Saturday, time.Sunday},
		RequiredCount: 1,
		EffectiveFrom: from,
	}
	groups := func(time.Time) []domain.GroupConfig { return []domain.GroupConfig{group} }

	subs := successRange(t, "2025-06-30", "2025-07-04") // Mon..Fri
	subs = append(subs, success(t, "2025-07-05"))       // Saturday

	got := streak.CountPerfectWeeks(subs, noRest, fixedTarget(6), groups, streak.WeekOptions{
		Today: day(t, "2025-07-09"),
	})
	if got != 1 {
		t.Errorf("expected 1 perfect week with clamped group window, got %d", got)
	}
}
