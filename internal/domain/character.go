package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Character is a tracked profile. XpGoal always equals the table experience
// of GoalLevel when GoalLevel is set.
type Character struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null" json:"account_id"`
	Name      string    `gorm:"not null;size:64" json:"char_name"`

	XpStart   int64 `gorm:"not null;default:0" json:"xp_start"`
	XpGoal    int64 `gorm:"not null;default:0" json:"xp_goal"`
	DailyGoal int64 `gorm:"not null;default:0" json:"daily_goal"`
	GoalLevel *int  `json:"goal_level"`

	XpLogs []XpLog `gorm:"foreignKey:CharacterID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SameName compares character names the way the registry does: trimmed and
// case-insensitive.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ExternalInfo is the registry view of a character. It is never stored as
// the source of truth.
type ExternalInfo struct {
	Name     string `json:"name"`
	Vocation string `json:"vocation"`
	Level    int    `json:"level"`
	World    string `json:"world"`
}
