package repository

import "github.com/yourusername/clinic-api/internal/domain/entity"

// PasswordResetRepository persists one-time password reset tokens.
type PasswordResetRepository interface {
	Create(reset *entity.PasswordReset) error

	// GetLatestUnusedByUserID returns the most recently created unused reset
	// token for the user, or apperrors.ErrNotFound.
	GetLatestUnusedByUserID(userID uint) (*entity.PasswordReset, error)

	MarkUsed(id uint) error
}
