package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/clinic-api/internal/domain/entity"
	apperrors "github.com/yourusername/clinic-api/internal/pkg/errors"
)

// PasswordResetRepo implements repository.PasswordResetRepository.
type PasswordResetRepo struct {
	db *gorm.DB
}

func NewPasswordResetRepo(db *gorm.DB) *PasswordResetRepo {
	return &PasswordResetRepo{db: db}
}

func (r *PasswordResetRepo) Create(reset *entity.PasswordReset) error {
	return r.db.Create(reset).Error
}

func (r *PasswordResetRepo) GetLatestUnusedByUserID(userID uint) (*entity.PasswordReset, error) {
	var reset entity.PasswordReset
	err := r.db.
		Where("user_id = ? AND used = ?", userID, false).
		Order("created_at DESC").
		First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest unused password reset: %w", err)
	}
	return &reset, nil
}

func (r *PasswordResetRepo) MarkUsed(id uint) error {
	result := r.db.Model(&entity.PasswordReset{}).
		Where("id = ?", id).
		Update("used", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark password reset %d used: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
