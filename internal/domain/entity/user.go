package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an account in the clinical records system.
// PasswordHash may be empty for legacy accounts that cannot log in until a
// password reset completes.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:255;not null;default:''" json:"name"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName sets the GORM table name.
func (User) TableName() string {
	return "users"
}

// HasPassword reports whether the account has a usable password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// CheckPassword compares a candidate password against the stored bcrypt hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
