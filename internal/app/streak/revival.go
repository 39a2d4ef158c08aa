package streak

import (
	"time"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

// IsRevivalCandidate decides, at approval time, whether a submission for
// target should be flagged as a backdated make-up. True iff the target day
// already passed, is not a rest day, and no other record holds a success
// for it. The caller must pass the history excluding the record being
// judged, otherwise it would veto itself.
func IsRevivalCandidate(target time.Time, others []domain.Submission, isRestDay RestDayFn, today time.Time) bool {
	day := DayOf(target)
	if !day.Before(DayOf(today)) {
		return false
	}
	if isRestDay != nil && isRestDay(day) {
		return false
	}
	key := DayKey(day)
	for _, s := range others {
		if s.TargetDate == nil {
			continue
		}
		if s.Status == domain.StatusSuccess && DayKey(*s.TargetDate) == key {
			return false
		}
	}
	return true
}
