package usecase

import (
	"fmt"
	"io"

	"metalya/internal/entity"
	"metalya/internal/policy"
	"metalya/internal/repo/persistent"
	"metalya/pkg/jwt"
	"metalya/pkg/logger"
	"metalya/pkg/s3"

	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(email, name, password string) (*entity.User, string, error)
	Login(email, password string) (*entity.User, string, error)
	GetUser(userID string) (*entity.User, error)
	UpdateProfile(callerID, targetID string, name, bio *string) (*entity.User, error)
	UploadAvatar(userID string, fileReader io.Reader, fileKey string, contentType string) (*entity.User, error)
	ListUsers(callerRole entity.UserRole, limit, offset int) ([]*entity.User, int64, error)
	ChangeRole(callerRole entity.UserRole, targetID string, role entity.UserRole) error
	DeleteUser(callerRole entity.UserRole, targetID string) error
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	s3Client   *s3.Client
	logger     *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	s3Client *s3.Client,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		s3Client:   s3Client,
		logger:     logger,
	}
}

func (uc *authUseCase) Register(email, name, password string) (*entity.User, string, error) {
	if email == "" || name == "" {
		return nil, "", fmt.Errorf("%w: email and name are required", ErrValidation)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	if _, err := uc.userRepo.GetByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, "", fmt.Errorf("failed to process registration")
	}

	user := &entity.User{
		Email:    email,
		Name:     name,
		Password: string(hashedPassword),
		Role:     entity.RoleUser,
	}

	if err := uc.userRepo.Create(user); err != nil {
		uc.logger.Error("Failed to create user: %v", err)
		return nil, "", fmt.Errorf("failed to create user")
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Login(email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	// Provider-issued accounts carry no hash and can never log in with a
	// password. Same generic error: no account enumeration.
	if user.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) GetUser(userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	user.Password = ""
	return user, nil
}

func (uc *authUseCase) UpdateProfile(callerID, targetID string, name, bio *string) (*entity.User, error) {
	if !policy.CanEditProfile(callerID, targetID) {
		return nil, ErrPermissionDenied
	}

	user, err := uc.userRepo.GetByID(targetID)
	if err != nil {
		return nil, ErrNotFound
	}

	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		user.Name = *name
	}
	if bio != nil {
		user.Bio = *bio
	}

	if err := uc.userRepo.Update(user); err != nil {
		uc.logger.Error("Failed to update user %s: %v", targetID, err)
		return nil, fmt.Errorf("failed to update profile")
	}

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) UploadAvatar(userID string, fileReader io.Reader, fileKey string, contentType string) (*entity.User, error) {
	avatarURL, err := uc.s3Client.UploadFile(fileKey, fileReader, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload avatar: %v", err)
		return nil, fmt.Errorf("failed to upload avatar")
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	user.AvatarURL = avatarURL
	if err := uc.userRepo.Update(user); err != nil {
		uc.logger.Error("Failed to update user: %v", err)
		return nil, fmt.Errorf("failed to update user")
	}

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) ListUsers(callerRole entity.UserRole, limit, offset int) ([]*entity.User, int64, error) {
	if !policy.CanViewAdminArea(callerRole) {
		return nil, 0, ErrPermissionDenied
	}

	users, total, err := uc.userRepo.List(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, total, nil
}

func (uc *authUseCase) ChangeRole(callerRole entity.UserRole, targetID string, role entity.UserRole) error {
	if !policy.CanChangeRole(callerRole) {
		return ErrPermissionDenied
	}

	switch role {
	case entity.RoleUser, entity.RoleRedacteur, entity.RoleAdmin, entity.RoleSuperAdmin:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	if _, err := uc.userRepo.GetByID(targetID); err != nil {
		return ErrNotFound
	}

	return uc.userRepo.UpdateRole(targetID, role)
}

func (uc *authUseCase) DeleteUser(callerRole entity.UserRole, targetID string) error {
	if callerRole != entity.RoleSuperAdmin {
		return ErrPermissionDenied
	}
	if _, err := uc.userRepo.GetByID(targetID); err != nil {
		return ErrNotFound
	}
	return uc.userRepo.Delete(targetID)
}
