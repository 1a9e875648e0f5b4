package models

import "time"

// Session binds an opaque token to a user account for the lifetime of a login.
type Session struct {
	Token string `gorm:"type:text;primaryKey"` // Opaque session token.

	UserID uint64 `gorm:"not null;index"`                                // Bound user ID.
	User   *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // Bound user; sessions die with the account.

	ExpiresAt time.Time `gorm:"not null;index"`          // Instant after which the binding is invalid.
	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
