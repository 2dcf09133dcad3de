package dbmodels

import "time"

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"index"`
	Token     string    `gorm:"type:text;uniqueIndex"`
	ExpiresAt time.Time `gorm:"index"`
	Active    bool      `gorm:"default:true;index"`
	CreatedAt time.Time
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (t RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t RefreshToken) IsValid(now time.Time) bool {
	return t.Active && !t.IsExpired(now)
}
