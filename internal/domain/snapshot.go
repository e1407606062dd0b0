package domain

// Snapshot is the derived progress view of a character, computed on every read.
type Snapshot struct {
	Config         Character    `json:"config"`
	Character      ExternalInfo `json:"character"`
	CharacterStale bool         `json:"character_stale"`
	Warning        string       `json:"warning,omitempty"`

	XpCurrent     int64   `json:"xp_current"`
	XpRemaining   int64   `json:"xp_remaining"`
	AverageDaily  float64 `json:"average_xp"`
	DaysEstimate  *int64  `json:"days_estimate"`
	TodayXp       int64   `json:"today_xp"`
	DailyProgress float64 `json:"daily_progress"`

	DailyLog []XpLog `json:"daily_log"`
}
