package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/clinic-api/internal/domain/repository"
)

// TxManager implements repository.TxManager on top of GORM transactions.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) (*TxManager, error) {
	if db == nil {
		return nil, fmt.Errorf("GORM DB instance is required for TxManager")
	}
	return &TxManager{db: db}, nil
}

// WithinTx runs fn with repositories bound to one transaction. A non-nil
// error from fn rolls everything back.
func (m *TxManager) WithinTx(ctx context.Context, fn func(r repository.AtomicRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repository.AtomicRepos{
			Users:             NewUserRepo(tx),
			VerificationCodes: NewVerificationCodeRepo(tx),
			PasswordResets:    NewPasswordResetRepo(tx),
		})
	})
}
