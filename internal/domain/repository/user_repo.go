package repository

import (
	"github.com/yourusername/clinic-api/internal/domain/entity"
)

// UserRepository persists account records.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)

	// MarkVerified flips the verified flag. It is only called inside a
	// transaction together with VerificationCodeRepository.MarkUsed.
	MarkVerified(userID uint) error

	// UpdatePasswordHash stores an already-hashed password. Hashing happens in
	// the service layer so the same transaction can mark the reset token used.
	UpdatePasswordHash(userID uint, passwordHash string) error
}
