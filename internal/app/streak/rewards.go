package streak

import (
	"fmt"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

// ShieldsEarned derives the lifetime protection-token grant from the
// perfect-week count. It is a pure function of the count, never of real
// time, so re-deriving after a recompute cannot drift.
//
// ConditionMonthlyAll is recognized but has no defined semantics yet and
// fails fast with domain.ErrUnsupportedCondition.
func ShieldsEarned(perfectWeeks int, cond domain.ShieldCondition, requiredWeeks int) (int, error) {
	switch cond {
	case domain.ConditionStraightCount:
		if requiredWeeks <= 0 {
			return 0, fmt.Errorf("required weeks must be positive, got %d", requiredWeeks)
		}
		return perfectWeeks / requiredWeeks, nil
	case domain.ConditionMonthlyAll:
		return 0, domain.ErrUnsupportedCondition
	default:
		return 0, fmt.Errorf("unknown shield condition %q", cond)
	}
}

// ShieldBalance is the stock still available for consumption: lifetime
// grant minus tokens already applied, floored at zero. The floor matters
// when settings change retroactively and shrink the grant below what was
// already spent.
func ShieldBalance(earned, consumed int) int {
	if earned < consumed {
		return 0
	}
	return earned - consumed
}

// CountConsumedShields counts the shield-kind records in the snapshot.
// Each applied token leaves exactly one such row.
func CountConsumedShields(subs []domain.Submission) int {
	n := 0
	for _, s := range subs {
		if s.Kind == domain.KindShield && s.TargetDate != nil {
			n++
		}
	}
	return n
}
