package tracker

import (
	"math"

	"yonexus/internal/domain"
)

const staleWarning = "character registry unavailable, showing last known character data"

// BuildSnapshot derives the progress metrics of ch from its ledger. entries
// must be ordered by day; today is a YYYY-MM-DD day.
func BuildSnapshot(ch domain.Character, entries []domain.XpLog, info domain.ExternalInfo, stale bool, today string) domain.Snapshot {
	var total, positiveSum, todayXp int64
	var positiveDays int
	for _, e := range entries {
		total += e.Xp
		if e.Xp > 0 {
			positiveSum += e.Xp
			positiveDays++
		}
		if e.Day == today {
			todayXp = e.Xp
		}
	}

	current := ch.XpStart + total
	remaining := ch.XpGoal - current
	if remaining < 0 {
		remaining = 0
	}

	// Losses are left out so a bad day does not drag the forecast down.
	var average float64
	if positiveDays > 0 {
		average = float64(positiveSum) / float64(positiveDays)
	}

	var daysEstimate *int64
	if average > 0 {
		days := int64(math.Ceil(float64(remaining) / average))
		daysEstimate = &days
	}

	var progress float64
	if ch.DailyGoal > 0 {
		progress = math.Round(float64(todayXp)/float64(ch.DailyGoal)*1000) / 10
		progress = math.Min(100, progress)
	}

	if entries == nil {
		entries = []domain.XpLog{}
	}

	snap := domain.Snapshot{
		Config:         ch,
		Character:      info,
		CharacterStale: stale,
		XpCurrent:      current,
		XpRemaining:    remaining,
		AverageDaily:   average,
		DaysEstimate:   daysEstimate,
		TodayXp:        todayXp,
		DailyProgress:  progress,
		DailyLog:       entries,
	}
	if stale {
		snap.Warning = staleWarning
	}
	return snap
}
