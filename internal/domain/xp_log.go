package domain

import (
	"time"

	"github.com/google/uuid"
)

const DayLayout = "2006-01-02"

// XpLog is the XP delta of one character on one calendar day.
type XpLog struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CharacterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_xp_logs_character_day" json:"-"`
	Day         string    `gorm:"size:10;not null;uniqueIndex:idx_xp_logs_character_day" json:"date"`
	Xp          int64     `gorm:"not null" json:"xp"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay validates a YYYY-MM-DD string and returns it in canonical form.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", err
	}
	return FormatDay(t), nil
}
