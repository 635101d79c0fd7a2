package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageModel struct {
	ID         string                  `gorm:"type:uuid;primary_key" json:"id"`
	Subject    string                  `gorm:"type:varchar(255);not null" json:"subject"`
	Content    string                  `gorm:"type:text;not null" json:"content"`
	SenderID   string                  `gorm:"type:uuid;not null;index" json:"sender_id"`
	Recipients []MessageRecipientModel `gorm:"foreignKey:MessageID" json:"recipients,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type MessageRecipientModel struct {
	ID          string     `gorm:"type:uuid;primary_key" json:"id"`
	MessageID   string     `gorm:"type:uuid;not null;index" json:"message_id"`
	RecipientID string     `gorm:"type:uuid;not null;index" json:"recipient_id"`
	IsRead      bool       `gorm:"default:false" json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (MessageRecipientModel) TableName() string {
	return "message_recipients"
}

func (r *MessageRecipientModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
