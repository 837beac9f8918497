package model

import "time"

// SessionRecord is the Postgres-backed copy of a browser session: the bearer
// credential and the serialized identity live in one row so they are always
// written and removed together.
type SessionRecord struct {
	SID       string    `gorm:"primaryKey;size:64"`
	Token     string    `gorm:"type:text;not null"`
	UserInfo  string    `gorm:"type:text;not null"`
	ExpiresAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (SessionRecord) TableName() string {
	return "storefront_sessions"
}
