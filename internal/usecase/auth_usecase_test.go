package usecase

import (
	"testing"

	"metalya/internal/entity"
	"metalya/pkg/jwt"
	"metalya/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) GetByID(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) List(limit, offset int) ([]*entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepository) UpdateRole(id string, role entity.UserRole) error {
	args := m.Called(id, role)
	return args.Error(0)
}

func (m *mockUserRepository) UpdatePassword(email, passwordHash string) error {
	args := m.Called(email, passwordHash)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockUserRepository) ResolveRole(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func newTestAuthUseCase(repo *mockUserRepository) AuthUseCase {
	return NewAuthUseCase(repo, jwt.NewService("test-secret"), nil, logger.New())
}

func TestRegister_NewUserStartsAsUser(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "new@example.com").Return(nil, assert.AnError)
	repo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)

	uc := newTestAuthUseCase(repo)
	user, token, err := uc.Register("new@example.com", "New User", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.Empty(t, user.Password)
	repo.AssertExpectations(t)
}

func TestRegister_RejectsTakenEmail(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "taken@example.com").Return(&entity.User{ID: "u1"}, nil)

	uc := newTestAuthUseCase(repo)
	_, _, err := uc.Register("taken@example.com", "Name", "password123")

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	uc := newTestAuthUseCase(new(mockUserRepository))

	_, _, err := uc.Register("new@example.com", "Name", "short")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_ValidCredentials(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "user@example.com").Return(&entity.User{
		ID:       "u1",
		Email:    "user@example.com",
		Password: string(hash),
		Role:     entity.RoleUser,
	}, nil)

	uc := newTestAuthUseCase(repo)
	user, token, err := uc.Login("user@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, user.Password)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "user@example.com").Return(&entity.User{
		ID:       "u1",
		Password: string(hash),
	}, nil)

	uc := newTestAuthUseCase(repo)
	_, _, err := uc.Login("user@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "ghost@example.com").Return(nil, assert.AnError)

	uc := newTestAuthUseCase(repo)
	_, _, err := uc.Login("ghost@example.com", "password123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_ProviderAccountHasNoPassword(t *testing.T) {
	repo := new(mockUserRepository)
	repo.On("GetByEmail", "oauth@example.com").Return(&entity.User{
		ID:       "u1",
		Password: "",
	}, nil)

	uc := newTestAuthUseCase(repo)
	_, _, err := uc.Login("oauth@example.com", "anything")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile_OnlySelf(t *testing.T) {
	uc := newTestAuthUseCase(new(mockUserRepository))

	name := "New Name"
	_, err := uc.UpdateProfile("u1", "u2", &name, nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestChangeRole_OnlySuperAdmin(t *testing.T) {
	repo := new(mockUserRepository)
	uc := newTestAuthUseCase(repo)

	err := uc.ChangeRole(entity.RoleAdmin, "u1", entity.RoleRedacteur)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	repo.On("GetByID", "u1").Return(&entity.User{ID: "u1", Role: entity.RoleUser}, nil)
	repo.On("UpdateRole", "u1", entity.RoleRedacteur).Return(nil)

	err = uc.ChangeRole(entity.RoleSuperAdmin, "u1", entity.RoleRedacteur)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestChangeRole_RejectsUnknownRole(t *testing.T) {
	uc := newTestAuthUseCase(new(mockUserRepository))

	err := uc.ChangeRole(entity.RoleSuperAdmin, "u1", entity.UserRole("OVERLORD"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListUsers_RequiresStaff(t *testing.T) {
	uc := newTestAuthUseCase(new(mockUserRepository))

	_, _, err := uc.ListUsers(entity.RoleUser, 10, 0)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDeleteUser_OnlySuperAdmin(t *testing.T) {
	repo := new(mockUserRepository)
	uc := newTestAuthUseCase(repo)

	err := uc.DeleteUser(entity.RoleAdmin, "u1")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	repo.On("GetByID", "u1").Return(&entity.User{ID: "u1"}, nil)
	repo.On("Delete", "u1").Return(nil)

	err = uc.DeleteUser(entity.RoleSuperAdmin, "u1")
	assert.NoError(t, err)
}
