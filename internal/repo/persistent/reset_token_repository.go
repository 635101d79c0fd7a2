package persistent

import (
	"metalya/internal/entity"
	"metalya/internal/model"

	"gorm.io/gorm"
)

type ResetTokenRepository interface {
	Replace(token *entity.PasswordResetToken) error
	Get(token string) (*entity.PasswordResetToken, error)
	Delete(token string) error
}

type resetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

// Replace stores the token, superseding any outstanding token for the same
// email so only the latest reset link works.
func (r *resetTokenRepository) Replace(token *entity.PasswordResetToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", token.Email).Delete(&model.PasswordResetTokenModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.PasswordResetTokenModel{
			Token:     token.Token,
			Email:     token.Email,
			ExpiresAt: token.ExpiresAt,
		}).Error
	})
}

func (r *resetTokenRepository) Get(token string) (*entity.PasswordResetToken, error) {
	var tokenModel model.PasswordResetTokenModel
	if err := r.db.Where("token = ?", token).First(&tokenModel).Error; err != nil {
		return nil, err
	}
	return ToResetTokenEntity(&tokenModel), nil
}

func (r *resetTokenRepository) Delete(token string) error {
	return r.db.Where("token = ?", token).Delete(&model.PasswordResetTokenModel{}).Error
}
