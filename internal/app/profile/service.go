// Package profile glues the pure streak engine to the repository: it loads
// a consistent snapshot, runs the engine, and persists the derived
// aggregates. All derived values are advisory until written back; callers
// re-invoke Recompute whenever the submission set or settings change.
package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mrcaqui/fit-proof-sub000/internal/app/rules"
	"github.com/mrcaqui/fit-proof-sub000/internal/app/streak"
	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
	"github.com/mrcaqui/fit-proof-sub000/internal/infra/metrics"
	"github.com/mrcaqui/fit-proof-sub000/internal/infra/sqlite"
)

// Service recomputes and serves user profiles.
type Service struct {
	db         *sqlite.DB
	windowDays int // streak scan window, 0 = engine default
}

// NewService creates a profile service.
func NewService(db *sqlite.DB, windowDays int) *Service {
	return &Service{db: db, windowDays: windowDays}
}

// Summary is a profile plus the day sets the UI renders on the calendar.
type Summary struct {
	Profile domain.Profile      `json:"profile"`
	Streak  domain.StreakResult `json:"streak"`
}

// resolver builds a rule resolver over the current configuration snapshot.
func (s *Service) resolver() (*rules.Resolver, domain.Settings, error) {
	rs, err := s.db.ListRules()
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("list rules: %w", err)
	}
	gs, err := s.db.ListGroups()
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("list groups: %w", err)
	}
	settings, err := s.db.GetSettings()
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return rules.NewResolver(rs, gs), settings, nil
}

// Recompute re-derives a user's aggregates from the current snapshot.
func (s *Service) Recompute(userID string) (*domain.Profile, error) {
	return s.RecomputeAt(userID, time.Now())
}

// RecomputeAt re-derives a user's aggregates as of the given time.
// Accepts a time parameter for testability.
func (s *Service) RecomputeAt(userID string, now time.Time) (*domain.Profile, error) {
	started := time.Now()
	defer func() { metrics.RecomputeDuration.Observe(time.Since(started).Seconds()) }()

	summary, err := s.summaryAt(userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.db.UpsertProfile(summary.Profile); err != nil {
		return nil, fmt.Errorf("persist profile: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":       userID,
		"streak":        summary.Profile.CurrentStreak,
		"perfect_weeks": summary.Profile.PerfectWeeks,
		"shield_stock":  summary.Profile.ShieldStock,
	}).Debug("profile recomputed")

	return &summary.Profile, nil
}

// summaryAt runs the engine over a fresh snapshot without persisting.
func (s *Service) summaryAt(userID string, now time.Time) (*Summary, error) {
	subs, err := s.db.ListSubmissions(userID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	resolver, settings, err := s.resolver()
	if err != nil {
		return nil, err
	}

	today := streak.DayOf(now)
	res := streak.ComputeStreak(subs, resolver.IsRestDay, streak.Options{
		Today:         today,
		EffectiveFrom: settings.EffectiveFrom,
		Groups:        resolver.ActiveGroups,
		WindowDays:    s.windowDays,
	})

	weeks := streak.CountPerfectWeeks(subs, resolver.IsRestDay, resolver.WeeklyTarget,
		resolver.ActiveGroups, streak.WeekOptions{
			Today:         today,
			AllowRevival:  settings.AllowRevivalWeeks,
			AllowShield:   settings.AllowShieldWeeks,
			ConfirmBefore: &today, // only fully elapsed weeks
		})

	earned, err := streak.ShieldsEarned(weeks, settings.ShieldCondition, settings.RequiredWeeks)
	if err != nil {
		return nil, fmt.Errorf("derive shield grant: %w", err)
	}
	consumed := streak.CountConsumedShields(subs)

	totalDays, totalReps := activityTotals(subs)
	return &Summary{
		Profile: domain.Profile{
			UserID:        userID,
			CurrentStreak: res.CurrentStreak,
			PerfectWeeks:  weeks,
			ShieldStock:   streak.ShieldBalance(earned, consumed),
			ShieldsUsed:   consumed,
			RevivalCount:  len(res.RevivalDays),
			TotalDays:     totalDays,
			TotalReps:     totalReps,
			UpdatedAt:     now,
		},
		Streak: res,
	}, nil
}

// Summary computes a fresh summary for rendering without writing it back.
func (s *Service) Summary(userID string) (*Summary, error) {
	return s.summaryAt(userID, time.Now())
}

// SummaryAt is Summary with an explicit evaluation time.
func (s *Service) SummaryAt(userID string, now time.Time) (*Summary, error) {
	return s.summaryAt(userID, now)
}

// RecomputeAll refreshes every known profile. Used by the nightly job and
// after settings changes; per-user failures are logged, not fatal.
func (s *Service) RecomputeAll(trigger string) error {
	return s.RecomputeAllAt(trigger, time.Now())
}

// RecomputeAllAt is RecomputeAll with an explicit evaluation time.
func (s *Service) RecomputeAllAt(trigger string, now time.Time) error {
	ids, err := s.db.ListUserIDs()
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	failed := 0
	for _, id := range ids {
		if _, err := s.RecomputeAt(id, now); err != nil {
			log.WithError(err).WithField("user_id", id).Error("recompute failed")
			failed++
			continue
		}
		metrics.Recomputes.WithLabelValues(trigger).Inc()
	}
	log.WithFields(log.Fields{
		"trigger": trigger,
		"total":   len(ids),
		"failed":  failed,
	}).Info("bulk recompute finished")
	if failed > 0 {
		return fmt.Errorf("recompute failed for %d of %d users", failed, len(ids))
	}
	return nil
}

// ─── Submission approval ────────────────────────────────────────────────────

// ApproveSubmission records an approved activity for the target date,
// flagging it as a revival when the date already passed unfilled. The
// revival check runs against the history excluding the new record.
func (s *Service) ApproveSubmission(userID string, target time.Time, kind domain.Kind, reps int) (*domain.Submission, error) {
	return s.ApproveSubmissionAt(userID, target, kind, reps, time.Now())
}

// ApproveSubmissionAt is ApproveSubmission with an explicit approval time.
func (s *Service) ApproveSubmissionAt(userID string, target time.Time, kind domain.Kind, reps int, now time.Time) (*domain.Submission, error) {
	if kind == domain.KindShield {
		return nil, fmt.Errorf("shield records go through ApplyShield")
	}

	history, err := s.db.ListSubmissions(userID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	resolver, _, err := s.resolver()
	if err != nil {
		return nil, err
	}

	day := streak.DayOf(target)
	sub := domain.Submission{
		ID:         uuid.NewString(),
		UserID:     userID,
		TargetDate: &day,
		Status:     domain.StatusSuccess,
		Kind:       kind,
		IsRevival:  streak.IsRevivalCandidate(day, history, resolver.IsRestDay, now),
		Reps:       reps,
		CreatedAt:  now,
	}
	if err := s.db.InsertSubmission(sub); err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	metrics.SubmissionsApproved.WithLabelValues(boolLabel(sub.IsRevival)).Inc()

	if _, err := s.RecomputeAt(userID, now); err != nil {
		return nil, err
	}
	return &sub, nil
}

// RemoveSubmission deletes a record and re-derives the aggregates.
func (s *Service) RemoveSubmission(userID, day string, kind domain.Kind) error {
	if err := s.db.DeleteSubmission(userID, day, kind); err != nil {
		return err
	}
	_, err := s.Recompute(userID)
	return err
}

// ─── Shields ────────────────────────────────────────────────────────────────

// ApplyShield spends one protection token on the given day. The stock
// check and the record insert commit atomically in the repository, so two
// admins racing for the last token cannot both win.
func (s *Service) ApplyShield(userID string, target time.Time) error {
	return s.ApplyShieldAt(userID, target, time.Now())
}

// ApplyShieldAt is ApplyShield with an explicit application time.
func (s *Service) ApplyShieldAt(userID string, target time.Time, now time.Time) error {
	day := streak.DayOf(target)
	err := s.db.ApplyShield(domain.Submission{
		ID:         uuid.NewString(),
		UserID:     userID,
		TargetDate: &day,
		Status:     domain.StatusSuccess,
		Kind:       domain.KindShield,
		CreatedAt:  now,
	})
	if err != nil {
		metrics.ShieldsRejected.WithLabelValues(rejectReason(err)).Inc()
		return err
	}
	metrics.ShieldsApplied.Inc()

	_, err = s.RecomputeAt(userID, now)
	return err
}

// RemoveShield refunds the token applied on the given day.
func (s *Service) RemoveShield(userID string, target time.Time) error {
	day := streak.DayOf(target).Format("2006-01-02")
	if err := s.db.RemoveShield(userID, day); err != nil {
		return err
	}
	_, err := s.Recompute(userID)
	return err
}

// ─── Configuration writes ───────────────────────────────────────────────────

// SaveGroup validates and persists a quota group, then refreshes every
// profile: group changes shift past weeks' targets.
func (s *Service) SaveGroup(g domain.GroupConfig) error {
	existing, err := s.db.ListGroups()
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}
	rs, err := s.db.ListRules()
	if err != nil {
		return fmt.Errorf("list rules: %w", err)
	}
	if err := rules.ValidateGroup(g, existing, rs); err != nil {
		return err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if err := s.db.UpsertGroup(g); err != nil {
		return fmt.Errorf("save group: %w", err)
	}
	return s.RecomputeAll("group_change")
}

// DeleteGroup removes a quota group and refreshes every profile.
func (s *Service) DeleteGroup(id string) error {
	if err := s.db.DeleteGroup(id); err != nil {
		return err
	}
	return s.RecomputeAll("group_change")
}

// SaveRule persists a rest-day rule and refreshes every profile.
func (s *Service) SaveRule(r domain.Rule) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := s.db.UpsertRule(r); err != nil {
		return fmt.Errorf("save rule: %w", err)
	}
	return s.RecomputeAll("rule_change")
}

// DeleteRule removes a rest-day rule and refreshes every profile.
func (s *Service) DeleteRule(id string) error {
	if err := s.db.DeleteRule(id); err != nil {
		return err
	}
	return s.RecomputeAll("rule_change")
}

// SaveSettings validates and persists the engine settings, then refreshes
// every profile. The monthly_all grant condition is rejected here — its
// semantics are not defined yet.
func (s *Service) SaveSettings(settings domain.Settings) error {
	if err := rules.ValidateSettings(settings); err != nil {
		return err
	}
	if err := s.db.SaveSettings(settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return s.RecomputeAll("settings_change")
}

// Settings returns the current engine settings.
func (s *Service) Settings() (domain.Settings, error) {
	return s.db.GetSettings()
}

// Rules returns the stored rest-day rules.
func (s *Service) Rules() ([]domain.Rule, error) {
	return s.db.ListRules()
}

// Groups returns the stored quota groups.
func (s *Service) Groups() ([]domain.GroupConfig, error) {
	return s.db.ListGroups()
}

// Profile returns the cached aggregates, recomputing on first access.
func (s *Service) Profile(userID string) (*domain.Profile, error) {
	p, err := s.db.GetProfile(userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return s.Recompute(userID)
	}
	return p, err
}

// Submissions returns a user's full history, oldest first.
func (s *Service) Submissions(userID string) ([]domain.Submission, error) {
	return s.db.ListSubmissions(userID)
}

// activityTotals sums distinct approved activity days and their reps.
func activityTotals(subs []domain.Submission) (days, reps int) {
	seen := make(map[string]bool)
	for _, sub := range subs {
		if sub.TargetDate == nil || !sub.Approved() {
			continue
		}
		key := streak.DayKey(*sub.TargetDate)
		if !seen[key] {
			seen[key] = true
			days++
		}
		reps += sub.Reps
	}
	return days, reps
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoShieldStock):
		return "no_stock"
	case errors.Is(err, domain.ErrShieldExists):
		return "already_protected"
	case errors.Is(err, domain.ErrShieldOnSuccess):
		return "day_has_success"
	case errors.Is(err, domain.ErrProfileNotFound):
		return "no_profile"
	}
	return "other"
}
