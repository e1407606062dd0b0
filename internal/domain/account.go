package domain

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email    string    `gorm:"uniqueIndex;not null;size:100" json:"email"`
	Password string    `gorm:"not null" json:"-"`

	// VIP accounts may track any number of characters.
	VipUntil *time.Time `json:"vip_until"`

	Characters []Character `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE;" json:"characters,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPremium reports whether the VIP period still covers the calendar day of now.
func (a *Account) IsPremium(now time.Time) bool {
	if a.VipUntil == nil {
		return false
	}
	return !Day(*a.VipUntil).Before(Day(now))
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
