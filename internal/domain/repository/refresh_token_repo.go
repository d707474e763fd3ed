package repository

import (
	"github.com/yourusername/clinic-api/internal/domain/entity"
)

// RefreshTokenRepository persists refresh token sessions (hash-only).
type RefreshTokenRepository interface {
	// CreateToken stores a new refresh token record and returns its ID.
	CreateToken(refreshToken *entity.RefreshToken) (uint, error)

	// GetActiveTokensForUser returns all unexpired tokens for a user, newest
	// first. Multiple concurrent sessions per user are allowed.
	GetActiveTokensForUser(userID uint) ([]*entity.RefreshToken, error)

	// CleanupExpiredTokens deletes rows past their expiry and returns the
	// number removed.
	CleanupExpiredTokens() (int64, error)
}
