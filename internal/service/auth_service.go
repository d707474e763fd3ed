package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/clinic-api/internal/domain/entity"
	"github.com/yourusername/clinic-api/internal/domain/repository"
	apperrors "github.com/yourusername/clinic-api/internal/pkg/errors"
	"github.com/yourusername/clinic-api/pkg/auth"
)

const (
	passwordHashCost   = 12
	resetTokenHashCost = 10

	verificationCodeTTL  = 15 * time.Minute
	refreshTokenLifetime = 7 * 24 * time.Hour
	resetTokenTTL        = time.Hour
)

// AuthConfig carries the policy knobs for credential flows.
type AuthConfig struct {
	// FrontendURL is the base for password reset links.
	FrontendURL string
	// EmailFailOpen keeps register and request-reset succeeding when the
	// email provider is down. The code or token stays in the database and
	// the failure is logged. When false those flows fail closed.
	EmailFailOpen bool
}

// AuthService implements registration, email verification, login, and
// password reset.
type AuthService struct {
	userRepo    repository.UserRepository
	codeRepo    repository.VerificationCodeRepository
	refreshRepo repository.RefreshTokenRepository
	resetRepo   repository.PasswordResetRepository
	tx          repository.TxManager

	jwtService   *auth.JWTService
	emailService EmailService
	cfg          AuthConfig
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeRepo repository.VerificationCodeRepository,
	refreshRepo repository.RefreshTokenRepository,
	resetRepo repository.PasswordResetRepository,
	tx repository.TxManager,
	jwtService *auth.JWTService,
	emailService EmailService,
	cfg AuthConfig,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		codeRepo:     codeRepo,
		refreshRepo:  refreshRepo,
		resetRepo:    resetRepo,
		tx:           tx,
		jwtService:   jwtService,
		emailService: emailService,
		cfg:          cfg,
	}
}

// LoginResult bundles everything a successful login returns.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// Register creates an unverified account and sends a 6-digit
// verification code valid for 15 minutes.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*entity.User, error) {
	email = strings.TrimSpace(email)

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrEmailTaken)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(passwordHash),
		IsVerified:   false,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, err
	}
	record := &entity.VerificationCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(verificationCodeTTL),
	}
	if err := s.codeRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to store verification code: %w", err)
	}

	idempotencyKey := fmt.Sprintf("verify-%d-%d", user.ID, record.ID)
	if err := s.emailService.SendVerificationCode(ctx, user.Email, code, idempotencyKey); err != nil {
		if !s.cfg.EmailFailOpen {
			return nil, fmt.Errorf("%w: %v", ErrEmailDeliveryFailed, err)
		}
		log.Printf("[AuthService] verification email failed for user %d: %v", user.ID, err)
	}

	return user, nil
}

// Verify consumes the latest pending code for the account. The code row
// and the user's verified flag change in one transaction.
func (s *AuthService) Verify(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrUnknownEmail
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	record, err := s.codeRepo.GetLatestUnusedByUserID(user.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("failed to look up verification code: %w", err)
	}

	if record.IsExpired(time.Now()) {
		return ErrInvalidOrExpiredCode
	}
	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		return ErrInvalidOrExpiredCode
	}

	err = s.tx.WithinTx(ctx, func(r repository.AtomicRepos) error {
		if err := r.VerificationCodes.MarkUsed(record.ID); err != nil {
			return err
		}
		return r.Users.MarkVerified(user.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to verify account: %w", err)
	}

	log.Printf("[AuthService] user %d verified", user.ID)
	return nil
}

// Login checks credentials and issues an access token plus a refresh
// token secret. Unknown email and wrong password return the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsVerified {
		return nil, ErrAccountNotVerified
	}
	if !user.HasPassword() {
		return nil, ErrPasswordNotSet
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshSecret, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	token := entity.NewRefreshToken(user.ID, auth.HashToken(refreshSecret), time.Now().Add(refreshTokenLifetime))
	if _, err := s.refreshRepo.CreateToken(token); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshSecret,
		User:         user,
	}, nil
}

// RequestPasswordReset issues a reset token valid for one hour and mails
// a link carrying it. Only the bcrypt hash of the token is stored.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrUnknownEmail
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	secret, err := auth.GenerateResetToken()
	if err != nil {
		return err
	}
	tokenHash, err := bcrypt.GenerateFromPassword([]byte(secret), resetTokenHashCost)
	if err != nil {
		return fmt.Errorf("failed to hash reset token: %w", err)
	}

	record := &entity.PasswordReset{
		UserID:    user.ID,
		TokenHash: string(tokenHash),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(record); err != nil {
		return fmt.Errorf("failed to store password reset: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		strings.TrimRight(s.cfg.FrontendURL, "/"), secret, url.QueryEscape(user.Email))

	idempotencyKey := fmt.Sprintf("reset-%d-%d", user.ID, record.ID)
	if err := s.emailService.SendPasswordReset(ctx, user.Email, resetURL, idempotencyKey); err != nil {
		if !s.cfg.EmailFailOpen {
			return fmt.Errorf("%w: %v", ErrEmailDeliveryFailed, err)
		}
		log.Printf("[AuthService] reset email failed for user %d: %v", user.ID, err)
	}

	return nil
}

// ResetPassword consumes the latest pending reset for the account and
// replaces the password hash, both in one transaction.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	email = strings.TrimSpace(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrUnknownEmail
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	record, err := s.resetRepo.GetLatestUnusedByUserID(user.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrInvalidOrExpiredResetToken
		}
		return fmt.Errorf("failed to look up password reset: %w", err)
	}

	if record.IsExpired(time.Now()) {
		return ErrInvalidOrExpiredResetToken
	}
	if bcrypt.CompareHashAndPassword([]byte(record.TokenHash), []byte(token)) != nil {
		return ErrInvalidOrExpiredResetToken
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), passwordHashCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(r repository.AtomicRepos) error {
		if err := r.Users.UpdatePasswordHash(user.ID, string(newHash)); err != nil {
			return err
		}
		return r.PasswordResets.MarkUsed(record.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	log.Printf("[AuthService] password reset for user %d", user.ID)
	return nil
}

// GetUserByID loads a user profile for authenticated requests.
func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// CleanupExpiredTokens removes refresh tokens past their expiry and
// returns how many were deleted.
func (s *AuthService) CleanupExpiredTokens() (int64, error) {
	return s.refreshRepo.CleanupExpiredTokens()
}

// generateVerificationCode returns a uniformly random 6-digit code.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
