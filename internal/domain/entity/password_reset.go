package entity

import "time"

// PasswordReset stores one-time password reset tokens. Only the bcrypt hash
// of the opaque token is persisted; the plaintext goes out via email.
type PasswordReset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"size:100;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

// IsExpired reports whether the reset token is past its expiry. Expiry equal
// to now counts as expired, same rule as verification codes.
func (p *PasswordReset) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}
