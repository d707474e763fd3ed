package entity

import "time"

// RefreshToken stores a long-lived session credential (hash-only model).
// The opaque secret is returned to the caller exactly once at login; only its
// SHA-256 hash is persisted.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// NewRefreshToken creates a refresh token record from a precomputed hash.
func NewRefreshToken(userID uint, tokenHash string, expiresAt time.Time) *RefreshToken {
	return &RefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
