package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Record errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSubmissionExists   = errors.New("submission already exists for this date")
	ErrProfileNotFound    = errors.New("profile not found")

	// Shield errors
	ErrNoShieldStock   = errors.New("no protection tokens available")
	ErrShieldExists    = errors.New("date is already protected by a token")
	ErrShieldNotFound  = errors.New("no protection token applied on this date")
	ErrShieldOnSuccess = errors.New("date already has an approved submission")

	// Configuration errors
	ErrUnsupportedCondition = errors.New("shield condition not yet supported")
	ErrInvalidGroupConfig   = errors.New("invalid group configuration")
	ErrGroupOverlap         = errors.New("group day assignments overlap")
	ErrGroupRestOverlap     = errors.New("group covers a rest day")
	ErrRuleNotFound         = errors.New("rule not found")
	ErrGroupNotFound        = errors.New("group configuration not found")
)
