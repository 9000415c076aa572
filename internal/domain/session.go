package domain

import "time"

type Session struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index:ix_sessions_user;not null"`
	Token     string    `gorm:"type:text;uniqueIndex:ux_sessions_token;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }
