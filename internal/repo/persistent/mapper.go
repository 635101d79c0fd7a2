package persistent

import (
	"strings"

	"metalya/internal/entity"
	"metalya/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:        m.ID,
		Email:     m.Email,
		Name:      m.Name,
		Password:  m.Password,
		Bio:       m.Bio,
		AvatarURL: m.AvatarURL,
		Role:      entity.UserRole(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:        e.ID,
		Email:     e.Email,
		Name:      e.Name,
		Password:  e.Password,
		Bio:       e.Bio,
		AvatarURL: e.AvatarURL,
		Role:      string(e.Role),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	var categories []string
	if m.Categories != "" {
		categories = strings.Split(m.Categories, ",")
	}

	return &entity.Post{
		ID:          m.ID,
		Slug:        m.Slug,
		Title:       m.Title,
		Excerpt:     m.Excerpt,
		Body:        m.Body,
		CoverURL:    m.CoverURL,
		ReadingTime: m.ReadingTime,
		Categories:  categories,
		Status:      entity.PostStatus(m.Status),
		AuthorID:    m.AuthorID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToPostModel derives the legacy published column from the status enum so
// the two can never disagree in storage.
func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	return &model.PostModel{
		ID:          e.ID,
		Slug:        e.Slug,
		Title:       e.Title,
		Excerpt:     e.Excerpt,
		Body:        e.Body,
		CoverURL:    e.CoverURL,
		ReadingTime: e.ReadingTime,
		Categories:  strings.Join(e.Categories, ","),
		Status:      string(e.Status),
		Published:   e.Status == entity.StatusPublished,
		AuthorID:    e.AuthorID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToCommentEntity(m *model.CommentModel) *entity.Comment {
	if m == nil {
		return nil
	}

	return &entity.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func ToCommentModel(e *entity.Comment) *model.CommentModel {
	if e == nil {
		return nil
	}

	return &model.CommentModel{
		ID:        e.ID,
		PostID:    e.PostID,
		AuthorID:  e.AuthorID,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}

func ToMessageEntity(m *model.MessageModel) *entity.Message {
	if m == nil {
		return nil
	}

	recipients := make([]entity.MessageRecipient, len(m.Recipients))
	for i := range m.Recipients {
		recipients[i] = *ToMessageRecipientEntity(&m.Recipients[i])
	}

	return &entity.Message{
		ID:         m.ID,
		Subject:    m.Subject,
		Content:    m.Content,
		SenderID:   m.SenderID,
		Recipients: recipients,
		CreatedAt:  m.CreatedAt,
	}
}

func ToMessageRecipientEntity(m *model.MessageRecipientModel) *entity.MessageRecipient {
	if m == nil {
		return nil
	}

	return &entity.MessageRecipient{
		ID:          m.ID,
		MessageID:   m.MessageID,
		RecipientID: m.RecipientID,
		IsRead:      m.IsRead,
		ReadAt:      m.ReadAt,
	}
}

func ToNewsletterEntity(m *model.NewsletterModel) *entity.Newsletter {
	if m == nil {
		return nil
	}

	return &entity.Newsletter{
		ID:        m.ID,
		Subject:   m.Subject,
		Content:   m.Content,
		Status:    entity.NewsletterStatus(m.Status),
		AuthorID:  m.AuthorID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToNewsletterModel(e *entity.Newsletter) *model.NewsletterModel {
	if e == nil {
		return nil
	}

	return &model.NewsletterModel{
		ID:        e.ID,
		Subject:   e.Subject,
		Content:   e.Content,
		Status:    string(e.Status),
		AuthorID:  e.AuthorID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToSubscriberEntity(m *model.SubscriberModel) *entity.Subscriber {
	if m == nil {
		return nil
	}

	return &entity.Subscriber{
		ID:        m.ID,
		Email:     m.Email,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToResetTokenEntity(m *model.PasswordResetTokenModel) *entity.PasswordResetToken {
	if m == nil {
		return nil
	}

	return &entity.PasswordResetToken{
		Token:     m.Token,
		Email:     m.Email,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}
