package persistent

import (
	"metalya/internal/entity"
	"metalya/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *entity.User) error
	GetByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
	List(limit, offset int) ([]*entity.User, int64, error)
	Update(user *entity.User) error
	UpdateRole(id string, role entity.UserRole) error
	UpdatePassword(email, passwordHash string) error
	Delete(id string) error
	ResolveRole(userID string) (string, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *entity.User) error {
	userModel := ToUserModel(user)
	if userModel.ID == "" {
		userModel.ID = uuid.New().String()
	}
	if err := r.db.Create(userModel).Error; err != nil {
		return err
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByEmail(email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("email = ?", email).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByID(id string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) List(limit, offset int) ([]*entity.User, int64, error) {
	var userModels []model.UserModel
	var total int64

	if err := r.db.Model(&model.UserModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&userModels).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entity.User, len(userModels))
	for i := range userModels {
		users[i] = ToUserEntity(&userModels[i])
	}
	return users, total, nil
}

func (r *userRepository) Update(user *entity.User) error {
	return r.db.Save(ToUserModel(user)).Error
}

func (r *userRepository) UpdateRole(id string, role entity.UserRole) error {
	return r.db.Model(&model.UserModel{}).Where("id = ?", id).Update("role", string(role)).Error
}

func (r *userRepository) UpdatePassword(email, passwordHash string) error {
	return r.db.Model(&model.UserModel{}).Where("email = ?", email).Update("password", passwordHash).Error
}

func (r *userRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.UserModel{}).Error
}

// ResolveRole satisfies middleware.RoleResolver so a role change takes
// effect on the next request without re-login.
func (r *userRepository) ResolveRole(userID string) (string, error) {
	var userModel model.UserModel
	if err := r.db.Select("role").Where("id = ?", userID).First(&userModel).Error; err != nil {
		return "", err
	}
	return userModel.Role, nil
}
