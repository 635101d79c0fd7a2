package usecase

import (
	"testing"
	"time"

	"metalya/internal/entity"
	"metalya/pkg/logger"
	"metalya/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type mockResetTokenRepository struct {
	mock.Mock
}

func (m *mockResetTokenRepository) Replace(token *entity.PasswordResetToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *mockResetTokenRepository) Get(token string) (*entity.PasswordResetToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PasswordResetToken), args.Error(1)
}

func (m *mockResetTokenRepository) Delete(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func newTestResetUseCase(userRepo *mockUserRepository, tokenRepo *mockResetTokenRepository, m mailer.Mailer) *passwordResetUseCase {
	return NewPasswordResetUseCase(
		userRepo, tokenRepo, m, logger.New(),
		"noreply@metalya.io", "https://metalya.io",
	).(*passwordResetUseCase)
}

func TestRequestReset_IssuesTokenAndMailsLink(t *testing.T) {
	userRepo := new(mockUserRepository)
	tokenRepo := new(mockResetTokenRepository)
	mail := &recordingMailer{}

	userRepo.On("GetByEmail", "user@example.com").Return(&entity.User{
		ID:    "u1",
		Email: "user@example.com",
	}, nil)

	var issued *entity.PasswordResetToken
	tokenRepo.On("Replace", mock.AnythingOfType("*entity.PasswordResetToken")).
		Run(func(args mock.Arguments) {
			issued = args.Get(0).(*entity.PasswordResetToken)
		}).
		Return(nil)

	uc := newTestResetUseCase(userRepo, tokenRepo, mail)
	err := uc.Request("user@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, issued)
	assert.Len(t, issued.Token, 64)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, time.Minute)

	assert.Len(t, mail.sent, 1)
	assert.Equal(t, "user@example.com", mail.sent[0].To)
	assert.Contains(t, mail.sent[0].HTML, "/reset-password?token="+issued.Token)
}

func TestRequestReset_UnknownEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, assert.AnError)

	uc := newTestResetUseCase(userRepo, new(mockResetTokenRepository), &recordingMailer{})
	err := uc.Request("ghost@example.com")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRedeem_UpdatesPasswordAndBurnsToken(t *testing.T) {
	userRepo := new(mockUserRepository)
	tokenRepo := new(mockResetTokenRepository)

	tokenRepo.On("Get", "tok").Return(&entity.PasswordResetToken{
		Token:     "tok",
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}, nil)

	var storedHash string
	userRepo.On("UpdatePassword", "user@example.com", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			storedHash = args.String(1)
		}).
		Return(nil)
	tokenRepo.On("Delete", "tok").Return(nil)

	uc := newTestResetUseCase(userRepo, tokenRepo, &recordingMailer{})
	err := uc.Redeem("tok", "newpassword123")

	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("newpassword123")))
	tokenRepo.AssertCalled(t, "Delete", "tok")
}

func TestRedeem_SecondUseFails(t *testing.T) {
	userRepo := new(mockUserRepository)
	tokenRepo := new(mockResetTokenRepository)

	// First call finds the token, second call sees it already deleted.
	tokenRepo.On("Get", "tok").Return(&entity.PasswordResetToken{
		Token:     "tok",
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}, nil).Once()
	tokenRepo.On("Get", "tok").Return(nil, assert.AnError)
	userRepo.On("UpdatePassword", "user@example.com", mock.AnythingOfType("string")).Return(nil)
	tokenRepo.On("Delete", "tok").Return(nil)

	uc := newTestResetUseCase(userRepo, tokenRepo, &recordingMailer{})

	assert.NoError(t, uc.Redeem("tok", "newpassword123"))
	assert.ErrorIs(t, uc.Redeem("tok", "anotherpassword"), ErrInvalidToken)
}

func TestRedeem_ExpiredTokenIsDeleted(t *testing.T) {
	tokenRepo := new(mockResetTokenRepository)
	tokenRepo.On("Get", "tok").Return(&entity.PasswordResetToken{
		Token:     "tok",
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)
	tokenRepo.On("Delete", "tok").Return(nil)

	uc := newTestResetUseCase(new(mockUserRepository), tokenRepo, &recordingMailer{})
	err := uc.Redeem("tok", "newpassword123")

	assert.ErrorIs(t, err, ErrExpiredToken)
	tokenRepo.AssertCalled(t, "Delete", "tok")
}

func TestRedeem_ExactBoundaryStillValid(t *testing.T) {
	userRepo := new(mockUserRepository)
	tokenRepo := new(mockResetTokenRepository)
	deadline := time.Now().Add(time.Hour)

	tokenRepo.On("Get", "tok").Return(&entity.PasswordResetToken{
		Token:     "tok",
		Email:     "user@example.com",
		ExpiresAt: deadline,
	}, nil)
	userRepo.On("UpdatePassword", "user@example.com", mock.AnythingOfType("string")).Return(nil)
	tokenRepo.On("Delete", "tok").Return(nil)

	uc := newTestResetUseCase(userRepo, tokenRepo, &recordingMailer{})
	uc.now = func() time.Time { return deadline }

	assert.NoError(t, uc.Redeem("tok", "newpassword123"))
}

func TestRedeem_RejectsShortPassword(t *testing.T) {
	uc := newTestResetUseCase(new(mockUserRepository), new(mockResetTokenRepository), &recordingMailer{})

	err := uc.Redeem("tok", "short")
	assert.ErrorIs(t, err, ErrValidation)
}
