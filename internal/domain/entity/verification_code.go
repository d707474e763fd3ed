package entity

import "time"

// VerificationCode stores one-time 6-digit email verification codes.
// Several rows may exist per user; the most recently created unused row is
// the authoritative pending code.
type VerificationCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

// IsExpired reports whether the code is past its expiry. A code whose expiry
// equals now is already expired.
func (v *VerificationCode) IsExpired(now time.Time) bool {
	return !v.ExpiresAt.After(now)
}
