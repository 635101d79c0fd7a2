package persistent

import (
	"metalya/internal/entity"
	"metalya/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewsletterRepository interface {
	Create(newsletter *entity.Newsletter) error
	GetByID(id string) (*entity.Newsletter, error)
	List(limit, offset int) ([]*entity.Newsletter, error)
	Update(newsletter *entity.Newsletter) error
	Delete(id string) error
}

type newsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) Create(newsletter *entity.Newsletter) error {
	newsletterModel := ToNewsletterModel(newsletter)
	if newsletterModel.ID == "" {
		newsletterModel.ID = uuid.New().String()
	}
	if err := r.db.Create(newsletterModel).Error; err != nil {
		return err
	}
	*newsletter = *ToNewsletterEntity(newsletterModel)
	return nil
}

func (r *newsletterRepository) GetByID(id string) (*entity.Newsletter, error) {
	var newsletterModel model.NewsletterModel
	if err := r.db.Where("id = ?", id).First(&newsletterModel).Error; err != nil {
		return nil, err
	}
	return ToNewsletterEntity(&newsletterModel), nil
}

func (r *newsletterRepository) List(limit, offset int) ([]*entity.Newsletter, error) {
	var newsletterModels []model.NewsletterModel
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&newsletterModels).Error; err != nil {
		return nil, err
	}

	newsletters := make([]*entity.Newsletter, len(newsletterModels))
	for i := range newsletterModels {
		newsletters[i] = ToNewsletterEntity(&newsletterModels[i])
	}
	return newsletters, nil
}

func (r *newsletterRepository) Update(newsletter *entity.Newsletter) error {
	return r.db.Save(ToNewsletterModel(newsletter)).Error
}

func (r *newsletterRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.NewsletterModel{}).Error
}
