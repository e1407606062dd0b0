package tracker

import (
	"fmt"

	"yonexus/internal/domain"
)

// resolveStartXp decides the starting xp for a profile write.
//
// stored is nil when the profile has no baseline yet (creation, or a rename
// that resets it). An unchanged stored value is kept as is, even if the
// character has since levelled past it. Any new value requires an empty
// ledger and must not be below floor.
func resolveStartXp(floor int64, requested, stored *int64, hasHistory bool) (int64, error) {
	if stored != nil && (requested == nil || *requested == *stored) {
		return *stored, nil
	}
	if hasHistory {
		return 0, domain.ErrStartXpLocked
	}
	if requested == nil {
		return floor, nil
	}
	if *requested < floor {
		return 0, fmt.Errorf("%w: %d is below %d", domain.ErrStartXpBelowFloor, *requested, floor)
	}
	return *requested, nil
}

func resolveDailyGoal(requested *int64, current int64) (int64, error) {
	if requested == nil {
		return current, nil
	}
	if *requested < 0 {
		return 0, fmt.Errorf("%w: daily goal cannot be negative", domain.ErrInvalidProfile)
	}
	return *requested, nil
}
