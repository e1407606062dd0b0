package tracker

import (
	"fmt"

	"yonexus/internal/domain"
)

// DefaultGoalSpan is how many levels above the current one a profile aims
// for when no goal is given.
const DefaultGoalSpan = 10

// GoalInput carries at most one of a target level or an explicit xp amount.
// Level wins when both are set.
type GoalInput struct {
	Level *int
	Xp    *int64
}

func (g GoalInput) IsSet() bool {
	return g.Level != nil || g.Xp != nil
}

// ResolveGoal turns a goal request into the stored goal level and xp goal.
// Only level goals are checked against currentLevel; explicit xp goals are
// taken as given.
func ResolveGoal(table LevelTable, currentLevel int, in GoalInput) (*int, int64, error) {
	switch {
	case in.Level != nil:
		level := *in.Level
		if level <= currentLevel {
			return nil, 0, fmt.Errorf("%w: goal level %d must be above current level %d",
				domain.ErrInvalidGoal, level, currentLevel)
		}
		xp, err := table.ExperienceFor(level)
		if err != nil {
			return nil, 0, err
		}
		return &level, xp, nil

	case in.Xp != nil:
		if *in.Xp < 0 {
			return nil, 0, fmt.Errorf("%w: xp goal cannot be negative", domain.ErrInvalidGoal)
		}
		return nil, *in.Xp, nil

	default:
		level := currentLevel + DefaultGoalSpan
		xp, err := table.ExperienceFor(level)
		if err != nil {
			return nil, 0, err
		}
		return &level, xp, nil
	}
}
