// Package domain holds the plain data types shared across the FitProof
// engine: submission snapshots, streak results, quota groups, scoped rules,
// and cached profile aggregates. No behavior beyond small pure helpers.
package domain

import "time"

// Status is the review outcome of a submission.
// Only StatusSuccess counts toward streaks and weekly completions.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
	StatusExcused Status = "excused"
	StatusPending Status = "" // not yet reviewed
)

// Kind distinguishes real activity records from protection-token records.
type Kind string

const (
	KindVideo   Kind = "video"
	KindComment Kind = "comment"
	// KindShield marks an applied protection token. It is never "approved
	// activity": the engine tracks it as a protected day instead.
	KindShield Kind = "shield"
)

// Submission is one immutable row of a user's history snapshot.
// TargetDate is the calendar day the record counts toward, which is
// distinct from CreatedAt; a nil TargetDate excludes the row from every
// date-keyed set the engine builds.
type Submission struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TargetDate *time.Time `json:"target_date"`
	Status     Status     `json:"status"`
	Kind       Kind       `json:"kind"`
	IsRevival  bool       `json:"is_revival"` // success submitted after the target date passed
	Reps       int        `json:"reps"`       // rep count for video submissions, 0 otherwise
	CreatedAt  time.Time  `json:"created_at"`
}

// Approved reports whether this row counts as approved activity:
// a reviewed success that is not a protection-token record.
func (s Submission) Approved() bool {
	return s.Status == StatusSuccess && s.Kind != KindShield
}
