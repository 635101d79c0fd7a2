package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"metalya/internal/entity"
	"metalya/internal/repo/persistent"
	"metalya/pkg/logger"
	"metalya/pkg/mailer"

	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

type PasswordResetUseCase interface {
	Request(email string) error
	Redeem(token, newPassword string) error
}

type passwordResetUseCase struct {
	userRepo  persistent.UserRepository
	tokenRepo persistent.ResetTokenRepository
	mailer    mailer.Mailer
	logger    *logger.Logger
	mailFrom  string
	baseURL   string

	// Injectable for tests.
	now func() time.Time
}

func NewPasswordResetUseCase(
	userRepo persistent.UserRepository,
	tokenRepo persistent.ResetTokenRepository,
	m mailer.Mailer,
	logger *logger.Logger,
	mailFrom, baseURL string,
) PasswordResetUseCase {
	return &passwordResetUseCase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    m,
		logger:    logger,
		mailFrom:  mailFrom,
		baseURL:   baseURL,
		now:       time.Now,
	}
}

// Request issues a fresh token for the account and mails the reset link.
// Any previous token for the same address is replaced; at most one token is
// live per account. Unknown addresses are reported as such.
func (uc *passwordResetUseCase) Request(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		uc.logger.Error("Failed to generate reset token: %v", err)
		return fmt.Errorf("failed to generate reset token")
	}

	token := &entity.PasswordResetToken{
		Token:     hex.EncodeToString(raw),
		Email:     user.Email,
		ExpiresAt: uc.now().Add(resetTokenTTL),
	}
	if err := uc.tokenRepo.Replace(token); err != nil {
		uc.logger.Error("Failed to store reset token: %v", err)
		return fmt.Errorf("failed to store reset token")
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", uc.baseURL, token.Token)
	err = uc.mailer.Send(&mailer.Email{
		From:    uc.mailFrom,
		To:      user.Email,
		Subject: "Réinitialisation de votre mot de passe",
		HTML: fmt.Sprintf(
			`<p>Bonjour,</p><p>Pour choisir un nouveau mot de passe, cliquez sur <a href="%s">ce lien</a>. Il expire dans une heure.</p>`,
			link,
		),
	})
	if err != nil {
		uc.logger.Error("Failed to send reset email to %s: %v", user.Email, err)
		return fmt.Errorf("failed to send reset email")
	}
	return nil
}

// Redeem exchanges a live token for a new password. The token is deleted on
// success, and also when it turns out to be expired; either way it cannot be
// presented twice.
func (uc *passwordResetUseCase) Redeem(token, newPassword string) error {
	if token == "" {
		return ErrInvalidToken
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	stored, err := uc.tokenRepo.Get(token)
	if err != nil {
		return ErrInvalidToken
	}

	if stored.Expired(uc.now()) {
		if err := uc.tokenRepo.Delete(token); err != nil {
			uc.logger.Warn("Failed to delete expired reset token: %v", err)
		}
		return ErrExpiredToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return fmt.Errorf("failed to hash password")
	}

	if err := uc.userRepo.UpdatePassword(stored.Email, string(hash)); err != nil {
		uc.logger.Error("Failed to update password for %s: %v", stored.Email, err)
		return fmt.Errorf("failed to update password")
	}

	if err := uc.tokenRepo.Delete(token); err != nil {
		uc.logger.Error("Failed to delete redeemed reset token: %v", err)
	}
	return nil
}
