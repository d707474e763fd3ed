package postgres

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/clinic-api/internal/domain/entity"
)

// RefreshTokenRepo implements repository.RefreshTokenRepository.
type RefreshTokenRepo struct {
	db *gorm.DB
}

func NewRefreshTokenRepo(db *gorm.DB) (*RefreshTokenRepo, error) {
	if db == nil {
		return nil, fmt.Errorf("GORM DB instance is required for RefreshTokenRepo")
	}
	return &RefreshTokenRepo{db: db}, nil
}

// CreateToken stores a new refresh token record and returns its ID.
func (r *RefreshTokenRepo) CreateToken(token *entity.RefreshToken) (uint, error) {
	result := r.db.Create(token)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to create refresh token: %w", result.Error)
	}
	if token.ID == 0 {
		return 0, fmt.Errorf("missing ID after refresh token insert")
	}
	return token.ID, nil
}

// GetActiveTokensForUser returns all unexpired tokens for a user, newest first.
func (r *RefreshTokenRepo) GetActiveTokensForUser(userID uint) ([]*entity.RefreshToken, error) {
	var tokens []*entity.RefreshToken
	result := r.db.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC").
		Find(&tokens)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get active refresh tokens: %w", result.Error)
	}
	return tokens, nil
}

// CleanupExpiredTokens deletes tokens past their expiry.
func (r *RefreshTokenRepo) CleanupExpiredTokens() (int64, error) {
	result := r.db.Where("expires_at <= ?", time.Now()).Delete(&entity.RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clean up expired refresh tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
