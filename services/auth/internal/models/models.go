package models

import "time"

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement"    json:"id"`
	Username      string         `gorm:"uniqueIndex;not null"        json:"username"`
	PasswordHash  string         `gorm:"not null"                    json:"-"`
	Roles         []string       `gorm:"serializer:json"             json:"roles"`
	RefreshTokens []RefreshToken `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// RefreshToken is one entry of a user's ordered list of valid refresh
// tokens. Seq keeps the issue order across saves.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"    json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Seq       int       `gorm:"not null"      json:"seq"`
	TokenHash string    `gorm:"not null"      json:"token_hash"`
	CreatedAt time.Time `json:"created_at"`
}

func All() []any {
	return []any{&User{}, &RefreshToken{}}
}
