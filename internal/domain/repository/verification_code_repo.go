package repository

import "github.com/yourusername/clinic-api/internal/domain/entity"

// VerificationCodeRepository persists one-time email verification codes.
type VerificationCodeRepository interface {
	Create(code *entity.VerificationCode) error

	// GetLatestUnusedByUserID returns the most recently created unused code
	// for the user, or apperrors.ErrNotFound.
	GetLatestUnusedByUserID(userID uint) (*entity.VerificationCode, error)

	MarkUsed(id uint) error
}
