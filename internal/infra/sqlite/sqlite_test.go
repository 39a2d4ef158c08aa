package sqlite_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
	"github.com/mrcaqui/fit-proof-sub000/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func testSubmission(t *testing.T, userID, date string, status domain.Status, kind domain.Kind) domain.Submission {
	d := testDay(t, date)
	return domain.Submission{
		ID:         uuid.NewString(),
		UserID:     userID,
		TargetDate: &d,
		Status:     status,
		Kind:       kind,
		CreatedAt:  time.Now(),
	}
}

func TestSubmissions_RoundTrip(t *testing.T) {
	db := testDB(t)

	sub := testSubmission(t, "alice", "2025-07-10", domain.StatusSuccess, domain.KindVideo)
	sub.Reps = 25
	if err := db.InsertSubmission(sub); err != nil {
		t.Fatalf("insert: %v", err)
	}

	subs, err := db.ListSubmissions("alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}
	got := subs[0]
	if got.ID != sub.ID || got.Status != domain.StatusSuccess || got.Kind != domain.KindVideo || got.Reps != 25 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.TargetDate == nil || got.TargetDate.Format("2006-01-02") != "2025-07-10" {
		t.Errorf("target date mismatch: %v", got.TargetDate)
	}
}

func TestSubmissions_DuplicateDateKindRejected(t *testing.T) {
	db := testDB(t)

	if err := db.InsertSubmission(testSubmission(t, "alice", "2025-07-10", domain.StatusSuccess, domain.KindVideo)); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := db.InsertSubmission(testSubmission(t, "alice", "2025-07-10", domain.StatusFail, domain.KindVideo))
	if !errors.Is(err, domain.ErrSubmissionExists) {
		t.Errorf("expected ErrSubmissionExists, got %v", err)
	}

	// A different kind on the same date is a separate axis.
	if err := db.InsertSubmission(testSubmission(t, "alice", "2025-07-10", domain.StatusSuccess, domain.KindComment)); err != nil {
		t.Errorf("comment on same date should insert: %v", err)
	}
}

func TestSubmissions_NilTargetDateAllowed(t *testing.T) {
	db := testDB(t)

	sub := domain.Submission{
		ID: uuid.NewString(), UserID: "alice",
		Status: domain.StatusPending, Kind: domain.KindVideo, CreatedAt: time.Now(),
	}
	if err := db.InsertSubmission(sub); err != nil {
		t.Fatalf("insert undated: %v", err)
	}
	// Undated rows do not collide with each other.
	sub.ID = uuid.NewString()
	if err := db.InsertSubmission(sub); err != nil {
		t.Errorf("second undated insert: %v", err)
	}
}

func TestSubmissions_Delete(t *testing.T) {
	db := testDB(t)

	sub := testSubmission(t, "alice", "2025-07-10", domain.StatusSuccess, domain.KindVideo)
	if err := db.InsertSubmission(sub); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.DeleteSubmission("alice", "2025-07-10", domain.KindVideo); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err := db.DeleteSubmission("alice", "2025-07-10", domain.KindVideo)
	if !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestProfiles_RoundTrip(t *testing.T) {
	db := testDB(t)

	if _, err := db.GetProfile("alice"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}

	p := domain.Profile{
		UserID: "alice", CurrentStreak: 7, PerfectWeeks: 3, ShieldStock: 1,
		ShieldsUsed: 2, RevivalCount: 1, TotalDays: 40, TotalReps: 800,
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertProfile(p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.GetProfile("alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CurrentStreak != 7 || got.PerfectWeeks != 3 || got.ShieldStock != 1 || got.TotalReps != 800 {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	p.CurrentStreak = 8
	if err := db.UpsertProfile(p); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, _ = db.GetProfile("alice")
	if got.CurrentStreak != 8 {
		t.Errorf("expected updated streak 8, got %d", got.CurrentStreak)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Shield Transaction Tests
// ═══════════════════════════════════════════════════════════════════════════

func shieldRec(t *testing.T, userID, date string) domain.Submission {
	return testSubmission(t, userID, date, domain.StatusSuccess, domain.KindShield)
}

func seedProfile(t *testing.T, db *sqlite.DB, userID string, stock int) {
	t.Helper()
	err := db.UpsertProfile(domain.Profile{UserID: userID, ShieldStock: stock, UpdatedAt: time.Now()})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func TestApplyShield_SpendsStock(t *testing.T) {
	db := testDB(t)
	seedProfile(t, db, "alice", 2)

	if err := db.ApplyShield(shieldRec(t, "alice", "2025-07-07")); err != nil {
		t.Fatalf("apply: %v", err)
	}

	p, _ := db.GetProfile("alice")
	if p.ShieldStock != 1 || p.ShieldsUsed != 1 {
		t.Errorf("expected stock 1 / used 1, got %d / %d", p.ShieldStock, p.ShieldsUsed)
	}

	subs, _ := db.ListSubmissions("alice")
	if len(subs) != 1 || subs[0].Kind != domain.KindShield {
		t.Errorf("expected one shield record, got %+v", subs)
	}
}

func TestApplyShield_NoStock(t *testing.T) {
	db := testDB(t)
	seedProfile(t, db, "alice", 0)

	err := db.ApplyShield(shieldRec(t, "alice", "2025-07-07"))
	if !errors.Is(err, domain.ErrNoShieldStock) {
		t.Errorf("expected ErrNoShieldStock, got %v", err)
	}
	// Nothing written on rollback.
	if subs, _ := db.ListSubmissions("alice"); len(subs) != 0 {
		t.Errorf("expected no records after rollback, got %d", len(subs))
	}
}

func TestApplyShield_AlreadyProtected(t *testing.T) {
	db := testDB(t)
	seedProfile(t, db, "alice", 2)

	if err := db.ApplyShield(shieldRec(t, "alice", "2025-07-07")); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	err := db.ApplyShield(shieldRec(t, "alice", "2025-07-07"))
	if !errors.Is(err, domain.ErrShieldExists) {
		t.Errorf("expected ErrShieldExists, got %v", err)
	}
	p, _ := db.GetProfile("alice")
	if p.ShieldStock != 1 {
		t.Errorf("second apply must not spend stock, got %d", p.ShieldStock)
	}
}

func TestApplyShield_SuccessDayRejected(t *testing.T) {
	db := testDB(t)
	seedProfile(t, db, "alice", 1)
	if err := db.InsertSubmission(testSubmission(t, "alice", "2025-07-07", domain.StatusSuccess, domain.KindVideo)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	err := db.ApplyShield(shieldRec(t, "alice", "2025-07-07"))
	if !errors.Is(err, domain.ErrShieldOnSuccess) {
		t.Errorf("expected ErrShieldOnSuccess, got %v", err)
	}
}

func TestRemoveShield_Refunds(t *testing.T) {
	db := testDB(t)
	seedProfile(t, db, "alice", 1)

	if err := db.ApplyShield(shieldRec(t, "alice", "2025-07-07")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := db.RemoveShield("alice", "2025-07-07"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	p, _ := db.GetProfile("alice")
	if p.ShieldStock != 1 || p.ShieldsUsed != 0 {
		t.Errorf("expected refund to stock 1 / used 0, got %d / %d", p.ShieldStock, p.ShieldsUsed)
	}

	err := db.RemoveShield("alice", "2025-07-07")
	if !errors.Is(err, domain.ErrShieldNotFound) {
		t.Errorf("expected ErrShieldNotFound, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Rules / Groups / Settings Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestRules_RoundTrip(t *testing.T) {
	db := testDB(t)

	w := int(time.Wednesday)
	rule := domain.Rule{
		ID: "weekly-wed", Scope: domain.ScopeWeekly, Weekday: &w, RestDay: true,
		EffectiveFrom: testDay(t, "2025-01-01"),
	}
	if err := db.UpsertRule(rule); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rs, err := db.ListRules()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rs) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rs))
	}
	got := rs[0]
	if got.Scope != domain.ScopeWeekly || got.Weekday == nil || *got.Weekday != w || !got.RestDay {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.Date != nil || got.DayOfMonth != nil || got.EffectiveTo != nil {
		t.Errorf("expected nil optional fields, got %+v", got)
	}

	if err := db.DeleteRule("weekly-wed"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.DeleteRule("weekly-wed"); !errors.Is(err, domain.ErrRuleNotFound) {
		t.Errorf("expected ErrRuleNotFound, got %v", err)
	}
}

func TestGroups_RoundTrip(t *testing.T) {
	db := testDB(t)

	until := testDay(t, "2025-12-01")
	g := domain.GroupConfig{
		ID:            "weekend",
		DaysOfWeek:    []time.Weekday{time.Saturday, time.Sunday},
		RequiredCount: 1,
		EffectiveFrom: testDay(t, "2025-01-01"),
		EffectiveTo:   &until,
	}
	if err := db.UpsertGroup(g); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	gs, err := db.ListGroups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(gs) != 1 {
		t.Fatalf("expected 1 group, got %d", len(gs))
	}
	got := gs[0]
	if len(got.DaysOfWeek) != 2 || got.DaysOfWeek[0] != time.Saturday || got.DaysOfWeek[1] != time.Sunday {
		t.Errorf("day set mismatch: %v", got.DaysOfWeek)
	}
	if got.RequiredCount != 1 || got.EffectiveTo == nil {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	if err := db.DeleteGroup("weekend"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.DeleteGroup("weekend"); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestSettings_DefaultsAndRoundTrip(t *testing.T) {
	db := testDB(t)

	s, err := db.GetSettings()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if s.ShieldCondition != domain.ConditionStraightCount || s.RequiredWeeks != 4 {
		t.Errorf("unexpected defaults: %+v", s)
	}

	from := testDay(t, "2025-03-01")
	s = domain.Settings{
		ShieldCondition:   domain.ConditionStraightCount,
		RequiredWeeks:     2,
		AllowRevivalWeeks: true,
		AllowShieldWeeks:  true,
		EffectiveFrom:     &from,
	}
	if err := db.SaveSettings(s); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.GetSettings()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RequiredWeeks != 2 || !got.AllowRevivalWeeks || !got.AllowShieldWeeks {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.EffectiveFrom == nil || got.EffectiveFrom.Format("2006-01-02") != "2025-03-01" {
		t.Errorf("effective-from mismatch: %v", got.EffectiveFrom)
	}
}

func TestListUserIDs(t *testing.T) {
	db := testDB(t)
	seedProfile(t, db, "bob", 0)
	if err := db.InsertSubmission(testSubmission(t, "alice", "2025-07-10", domain.StatusSuccess, domain.KindVideo)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	ids, err := db.ListUserIDs()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 users, got %v", ids)
	}
}
