package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewsletterModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	Subject   string         `gorm:"type:varchar(255);not null" json:"subject"`
	Content   string         `gorm:"type:text" json:"content"`
	Status    string         `gorm:"type:varchar(20);default:'DRAFT'" json:"status"`
	AuthorID  string         `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (NewsletterModel) TableName() string {
	return "newsletters"
}

func (n *NewsletterModel) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

type SubscriberModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SubscriberModel) TableName() string {
	return "subscribers"
}

func (s *SubscriberModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

type PasswordResetTokenModel struct {
	Token     string    `gorm:"type:varchar(128);primary_key" json:"-"`
	Email     string    `gorm:"not null;index" json:"email"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}
