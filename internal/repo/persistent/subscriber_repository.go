package persistent

import (
	"metalya/internal/entity"
	"metalya/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriberRepository interface {
	Upsert(email string) (*entity.Subscriber, error)
	ListActive() ([]*entity.Subscriber, error)
	Deactivate(email string) error
}

type subscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

// Upsert signs the email up, reactivating a previously unsubscribed row
// instead of failing on the unique index.
func (r *subscriberRepository) Upsert(email string) (*entity.Subscriber, error) {
	var existing model.SubscriberModel
	err := r.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if !existing.IsActive {
			if err := r.db.Model(&existing).Update("is_active", true).Error; err != nil {
				return nil, err
			}
			existing.IsActive = true
		}
		return ToSubscriberEntity(&existing), nil
	}

	subscriberModel := &model.SubscriberModel{
		ID:       uuid.New().String(),
		Email:    email,
		IsActive: true,
	}
	if err := r.db.Create(subscriberModel).Error; err != nil {
		return nil, err
	}
	return ToSubscriberEntity(subscriberModel), nil
}

func (r *subscriberRepository) ListActive() ([]*entity.Subscriber, error) {
	var subscriberModels []model.SubscriberModel
	if err := r.db.Where("is_active = ?", true).Order("created_at ASC").Find(&subscriberModels).Error; err != nil {
		return nil, err
	}

	subscribers := make([]*entity.Subscriber, len(subscriberModels))
	for i := range subscriberModels {
		subscribers[i] = ToSubscriberEntity(&subscriberModels[i])
	}
	return subscribers, nil
}

func (r *subscriberRepository) Deactivate(email string) error {
	return r.db.Model(&model.SubscriberModel{}).Where("email = ?", email).Update("is_active", false).Error
}
