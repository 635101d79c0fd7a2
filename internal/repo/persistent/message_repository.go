package persistent

import (
	"time"

	"metalya/internal/entity"
	"metalya/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	CreateWithRecipients(message *entity.Message, recipientIDs []string) error
	GetByID(id string) (*entity.Message, error)
	GetRecipient(messageID, userID string) (*entity.MessageRecipient, error)
	ListForRecipient(userID string, limit, offset int) ([]*entity.Message, error)
	MarkRead(messageID, userID string, at time.Time) error
	DeleteForRecipient(messageID, userID string) error
	UnreadCount(userID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// CreateWithRecipients creates the message row and one recipient row per
// recipient in a single transaction. Either everything lands or nothing.
func (r *messageRepository) CreateWithRecipients(message *entity.Message, recipientIDs []string) error {
	messageModel := &model.MessageModel{
		ID:       message.ID,
		Subject:  message.Subject,
		Content:  message.Content,
		SenderID: message.SenderID,
	}
	if messageModel.ID == "" {
		messageModel.ID = uuid.New().String()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(messageModel).Error; err != nil {
			return err
		}

		for _, recipientID := range recipientIDs {
			recipient := &model.MessageRecipientModel{
				ID:          uuid.New().String(),
				MessageID:   messageModel.ID,
				RecipientID: recipientID,
				IsRead:      false,
			}
			if err := tx.Create(recipient).Error; err != nil {
				return err
			}
			messageModel.Recipients = append(messageModel.Recipients, *recipient)
		}
		return nil
	})
	if err != nil {
		return err
	}

	*message = *ToMessageEntity(messageModel)
	return nil
}

func (r *messageRepository) GetByID(id string) (*entity.Message, error) {
	var messageModel model.MessageModel
	if err := r.db.Preload("Recipients").Where("id = ?", id).First(&messageModel).Error; err != nil {
		return nil, err
	}
	return ToMessageEntity(&messageModel), nil
}

func (r *messageRepository) GetRecipient(messageID, userID string) (*entity.MessageRecipient, error) {
	var recipientModel model.MessageRecipientModel
	err := r.db.Where("message_id = ? AND recipient_id = ?", messageID, userID).First(&recipientModel).Error
	if err != nil {
		return nil, err
	}
	return ToMessageRecipientEntity(&recipientModel), nil
}

func (r *messageRepository) ListForRecipient(userID string, limit, offset int) ([]*entity.Message, error) {
	var messageModels []model.MessageModel
	query := r.db.
		Joins("JOIN message_recipients ON message_recipients.message_id = messages.id").
		Where("message_recipients.recipient_id = ?", userID).
		Preload("Recipients", "recipient_id = ?", userID).
		Order("messages.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&messageModels).Error; err != nil {
		return nil, err
	}

	messages := make([]*entity.Message, len(messageModels))
	for i := range messageModels {
		messages[i] = ToMessageEntity(&messageModels[i])
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(messageID, userID string, at time.Time) error {
	return r.db.Model(&model.MessageRecipientModel{}).
		Where("message_id = ? AND recipient_id = ?", messageID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": at}).Error
}

// DeleteForRecipient removes only the caller's recipient row. The message
// row and other recipients' rows stay untouched; an orphaned message row is
// acceptable.
func (r *messageRepository) DeleteForRecipient(messageID, userID string) error {
	return r.db.Where("message_id = ? AND recipient_id = ?", messageID, userID).
		Delete(&model.MessageRecipientModel{}).Error
}

func (r *messageRepository) UnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.MessageRecipientModel{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
