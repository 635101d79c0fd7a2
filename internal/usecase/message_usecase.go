package usecase

import (
	"fmt"
	"time"

	"metalya/internal/entity"
	"metalya/internal/repo/persistent"
	"metalya/pkg/logger"
	"metalya/pkg/queue"
)

type MessageUseCase interface {
	Send(senderID, subject, content string, recipientIDs []string) (*entity.Message, error)
	Inbox(userID string, limit, offset int) ([]*entity.Message, error)
	MarkRead(messageID, userID string) error
	Delete(messageID, userID string) error
	UnreadCount(userID string) (int64, error)
}

type messageUseCase struct {
	messageRepo persistent.MessageRepository
	userRepo    persistent.UserRepository
	queueClient *queue.Client
	logger      *logger.Logger
	now         func() time.Time
}

func NewMessageUseCase(
	messageRepo persistent.MessageRepository,
	userRepo persistent.UserRepository,
	queueClient *queue.Client,
	logger *logger.Logger,
) MessageUseCase {
	return &messageUseCase{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
		logger:      logger,
		now:         time.Now,
	}
}

// Send fans a message out to every recipient: one message row plus one
// read-state row per recipient, written atomically. Recipients are
// deduplicated; the sender addressing themselves is allowed.
func (uc *messageUseCase) Send(senderID, subject, content string, recipientIDs []string) (*entity.Message, error) {
	if subject == "" || content == "" {
		return nil, fmt.Errorf("%w: subject and content are required", ErrValidation)
	}
	if len(recipientIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one recipient is required", ErrValidation)
	}

	seen := make(map[string]struct{}, len(recipientIDs))
	unique := make([]string, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		if id == "" {
			return nil, fmt.Errorf("%w: empty recipient id", ErrValidation)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	for _, id := range unique {
		if _, err := uc.userRepo.GetByID(id); err != nil {
			return nil, fmt.Errorf("%w: recipient %s", ErrNotFound, id)
		}
	}

	message := &entity.Message{
		Subject:  subject,
		Content:  content,
		SenderID: senderID,
	}
	if err := uc.messageRepo.CreateWithRecipients(message, unique); err != nil {
		uc.logger.Error("Failed to send message: %v", err)
		return nil, fmt.Errorf("failed to send message")
	}

	if uc.queueClient != nil {
		go func() {
			err := uc.queueClient.PublishInboxTask(map[string]interface{}{
				"message_id": message.ID,
				"sender_id":  senderID,
				"recipients": unique,
			})
			if err != nil {
				uc.logger.Warn("Failed to publish inbox notification: %v", err)
			}
		}()
	}

	return message, nil
}

func (uc *messageUseCase) Inbox(userID string, limit, offset int) ([]*entity.Message, error) {
	return uc.messageRepo.ListForRecipient(userID, limit, offset)
}

// MarkRead records the read timestamp for the caller's copy. It is
// idempotent: marking an already-read message keeps the original timestamp,
// and marking a message the caller has no copy of is a no-op, not an error.
func (uc *messageUseCase) MarkRead(messageID, userID string) error {
	recipient, err := uc.messageRepo.GetRecipient(messageID, userID)
	if err != nil {
		return nil
	}
	if recipient.IsRead {
		return nil
	}

	if err := uc.messageRepo.MarkRead(messageID, userID, uc.now()); err != nil {
		uc.logger.Error("Failed to mark message %s read for %s: %v", messageID, userID, err)
		return fmt.Errorf("failed to mark message read")
	}
	return nil
}

// Delete removes only the caller's copy. Other recipients keep theirs.
func (uc *messageUseCase) Delete(messageID, userID string) error {
	if _, err := uc.messageRepo.GetRecipient(messageID, userID); err != nil {
		return ErrNotFound
	}
	if err := uc.messageRepo.DeleteForRecipient(messageID, userID); err != nil {
		uc.logger.Error("Failed to delete message %s for %s: %v", messageID, userID, err)
		return fmt.Errorf("failed to delete message")
	}
	return nil
}

// UnreadCount is always computed fresh; the badge is never cached.
func (uc *messageUseCase) UnreadCount(userID string) (int64, error) {
	return uc.messageRepo.UnreadCount(userID)
}
