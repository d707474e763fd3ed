package repository

import "context"

// AtomicRepos groups the repositories that participate in a single store
// transaction.
type AtomicRepos struct {
	Users             UserRepository
	VerificationCodes VerificationCodeRepository
	PasswordResets    PasswordResetRepository
}

// TxManager executes a function inside one store transaction. All writes made
// through the repositories passed to fn commit together or roll back together.
// The two-step credential transitions (verify: flag + code, reset: hash +
// token) must go through this to avoid hybrid states on partial failure.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r AtomicRepos) error) error
}
