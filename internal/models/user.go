package models

import "time"

// User represents an end-user account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Normalized login name.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	GreenCount  uint64 `gorm:"not null;default:0"` // Green counter value.
	YellowCount uint64 `gorm:"not null;default:0"` // Yellow counter value.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
