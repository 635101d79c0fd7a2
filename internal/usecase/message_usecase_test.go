package usecase

import (
	"testing"
	"time"

	"metalya/internal/entity"
	"metalya/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockMessageRepository struct {
	mock.Mock
}

func (m *mockMessageRepository) CreateWithRecipients(message *entity.Message, recipientIDs []string) error {
	args := m.Called(message, recipientIDs)
	return args.Error(0)
}

func (m *mockMessageRepository) GetByID(id string) (*entity.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Message), args.Error(1)
}

func (m *mockMessageRepository) GetRecipient(messageID, userID string) (*entity.MessageRecipient, error) {
	args := m.Called(messageID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MessageRecipient), args.Error(1)
}

func (m *mockMessageRepository) ListForRecipient(userID string, limit, offset int) ([]*entity.Message, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Message), args.Error(1)
}

func (m *mockMessageRepository) MarkRead(messageID, userID string, at time.Time) error {
	args := m.Called(messageID, userID, at)
	return args.Error(0)
}

func (m *mockMessageRepository) DeleteForRecipient(messageID, userID string) error {
	args := m.Called(messageID, userID)
	return args.Error(0)
}

func (m *mockMessageRepository) UnreadCount(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestMessageUseCase(messageRepo *mockMessageRepository, userRepo *mockUserRepository) MessageUseCase {
	return NewMessageUseCase(messageRepo, userRepo, nil, logger.New())
}

func TestSendMessage_FansOutToAllRecipients(t *testing.T) {
	messageRepo := new(mockMessageRepository)
	userRepo := new(mockUserRepository)

	for _, id := range []string{"u1", "u2", "u3"} {
		userRepo.On("GetByID", id).Return(&entity.User{ID: id}, nil)
	}
	messageRepo.On("CreateWithRecipients", mock.AnythingOfType("*entity.Message"), []string{"u1", "u2", "u3"}).Return(nil)

	uc := newTestMessageUseCase(messageRepo, userRepo)
	message, err := uc.Send("sender-1", "Hello", "body", []string{"u1", "u2", "u3"})

	assert.NoError(t, err)
	assert.Equal(t, "sender-1", message.SenderID)
	messageRepo.AssertExpectations(t)
}

func TestSendMessage_DeduplicatesRecipients(t *testing.T) {
	messageRepo := new(mockMessageRepository)
	userRepo := new(mockUserRepository)

	userRepo.On("GetByID", "u1").Return(&entity.User{ID: "u1"}, nil)
	messageRepo.On("CreateWithRecipients", mock.AnythingOfType("*entity.Message"), []string{"u1"}).Return(nil)

	uc := newTestMessageUseCase(messageRepo, userRepo)
	_, err := uc.Send("sender-1", "Hello", "body", []string{"u1", "u1", "u1"})

	assert.NoError(t, err)
	messageRepo.AssertExpectations(t)
}

func TestSendMessage_RequiresSubjectContentAndRecipients(t *testing.T) {
	uc := newTestMessageUseCase(new(mockMessageRepository), new(mockUserRepository))

	_, err := uc.Send("sender-1", "", "body", []string{"u1"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.Send("sender-1", "Hello", "", []string{"u1"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.Send("sender-1", "Hello", "body", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendMessage_RejectsUnknownRecipient(t *testing.T) {
	messageRepo := new(mockMessageRepository)
	userRepo := new(mockUserRepository)
	userRepo.On("GetByID", "ghost").Return(nil, assert.AnError)

	uc := newTestMessageUseCase(messageRepo, userRepo)
	_, err := uc.Send("sender-1", "Hello", "body", []string{"ghost"})

	assert.ErrorIs(t, err, ErrNotFound)
	messageRepo.AssertNotCalled(t, "CreateWithRecipients", mock.Anything, mock.Anything)
}

func TestMarkRead_SetsTimestampOnce(t *testing.T) {
	messageRepo := new(mockMessageRepository)
	messageRepo.On("GetRecipient", "m1", "u1").Return(&entity.MessageRecipient{
		MessageID:   "m1",
		RecipientID: "u1",
	}, nil)
	messageRepo.On("MarkRead", "m1", "u1", mock.AnythingOfType("time.Time")).Return(nil)

	uc := newTestMessageUseCase(messageRepo, new(mockUserRepository))
	err := uc.MarkRead("m1", "u1")

	assert.NoError(t, err)
	messageRepo.AssertExpectations(t)
}

func TestMarkRead_AlreadyReadIsNoOp(t *testing.T) {
	readAt := time.Now()
	messageRepo := new(mockMessageRepository)
	messageRepo.On("GetRecipient", "m1", "u1").Return(&entity.MessageRecipient{
		MessageID:   "m1",
		RecipientID: "u1",
		IsRead:      true,
		ReadAt:      &readAt,
	}, nil)

	uc := newTestMessageUseCase(messageRepo, new(mockUserRepository))
	err := uc.MarkRead("m1", "u1")

	assert.NoError(t, err)
	messageRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRead_NoRecipientRowIsNoOp(t *testing.T) {
	messageRepo := new(mockMessageRepository)
	messageRepo.On("GetRecipient", "m1", "stranger").Return(nil, assert.AnError)

	uc := newTestMessageUseCase(messageRepo, new(mockUserRepository))
	err := uc.MarkRead("m1", "stranger")

	assert.NoError(t, err)
	messageRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteMessage_RemovesOnlyCallersCopy(t *testing.T) {
	messageRepo := new(mockMessageRepository)
	messageRepo.On("GetRecipient", "m1", "u1").Return(&entity.MessageRecipient{
		MessageID:   "m1",
		RecipientID: "u1",
	}, nil)
	messageRepo.On("DeleteForRecipient", "m1", "u1").Return(nil)

	uc := newTestMessageUseCase(messageRepo, new(mockUserRepository))
	err := uc.Delete("m1", "u1")

	assert.NoError(t, err)
	messageRepo.AssertExpectations(t)
}

func TestUnreadCount(t *testing.T) {
	messageRepo := new(mockMessageRepository)
	messageRepo.On("UnreadCount", "u1").Return(int64(4), nil)

	uc := newTestMessageUseCase(messageRepo, new(mockUserRepository))
	count, err := uc.UnreadCount("u1")

	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
