package domain

import "time"

// Profile caches the derived aggregates for one user. The row is advisory:
// it is refreshed from the engine whenever the submission set or settings
// change, and the nightly job re-derives it across the day boundary.
type Profile struct {
	UserID        string    `json:"user_id"`
	CurrentStreak int       `json:"current_streak"`
	PerfectWeeks  int       `json:"perfect_weeks"`
	ShieldStock   int       `json:"shield_stock"` // earned minus consumed, floored at 0
	ShieldsUsed   int       `json:"shields_used"`
	RevivalCount  int       `json:"revival_count"`
	TotalDays     int       `json:"total_days"` // distinct approved activity days
	TotalReps     int       `json:"total_reps"`
	UpdatedAt     time.Time `json:"updated_at"`
}
