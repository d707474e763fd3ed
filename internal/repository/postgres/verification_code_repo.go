package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/clinic-api/internal/domain/entity"
	apperrors "github.com/yourusername/clinic-api/internal/pkg/errors"
)

// VerificationCodeRepo implements repository.VerificationCodeRepository.
type VerificationCodeRepo struct {
	db *gorm.DB
}

func NewVerificationCodeRepo(db *gorm.DB) *VerificationCodeRepo {
	return &VerificationCodeRepo{db: db}
}

func (r *VerificationCodeRepo) Create(code *entity.VerificationCode) error {
	return r.db.Create(code).Error
}

func (r *VerificationCodeRepo) GetLatestUnusedByUserID(userID uint) (*entity.VerificationCode, error) {
	var code entity.VerificationCode
	err := r.db.
		Where("user_id = ? AND used = ?", userID, false).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest unused verification code: %w", err)
	}
	return &code, nil
}

func (r *VerificationCodeRepo) MarkUsed(id uint) error {
	result := r.db.Model(&entity.VerificationCode{}).
		Where("id = ?", id).
		Update("used", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark verification code %d used: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
