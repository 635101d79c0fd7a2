package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"metalya/internal/entity"
	"metalya/internal/usecase"
	"metalya/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostUseCase is a mock implementation of PostUseCase
type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) CreatePost(authorID string, title, excerpt, body string, categories []string) (*entity.Post, error) {
	args := m.Called(authorID, title, excerpt, body, categories)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) GetPost(postID, callerID string, callerRole entity.UserRole) (*entity.Post, error) {
	args := m.Called(postID, callerID, callerRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) GetPublishedBySlug(ctx context.Context, slug string) (*entity.Post, string, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.Post), args.String(1), args.Error(2)
}

func (m *MockPostUseCase) ListPublished(limit, offset int, category string) ([]*entity.Post, error) {
	args := m.Called(limit, offset, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) ListByStatus(callerRole entity.UserRole, status entity.PostStatus, limit, offset int) ([]*entity.Post, error) {
	args := m.Called(callerRole, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) GetAuthorPosts(authorID string, limit, offset int) ([]*entity.Post, error) {
	args := m.Called(authorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) UpdatePost(postID, callerID string, callerRole entity.UserRole, title, excerpt, body *string, categories []string) (*entity.Post, error) {
	args := m.Called(postID, callerID, callerRole, title, excerpt, body, categories)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) SubmitForReview(postID, callerID string, callerRole entity.UserRole) (*entity.Post, error) {
	args := m.Called(postID, callerID, callerRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) WithdrawFromReview(postID, callerID string, callerRole entity.UserRole) (*entity.Post, error) {
	args := m.Called(postID, callerID, callerRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) ChangeStatus(postID string, callerRole entity.UserRole, status entity.PostStatus) (*entity.Post, error) {
	args := m.Called(postID, callerRole, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) DeletePost(postID, callerID string, callerRole entity.UserRole) error {
	args := m.Called(postID, callerID, callerRole)
	return args.Error(0)
}

func (m *MockPostUseCase) UploadCover(postID, callerID string, callerRole entity.UserRole, fileReader io.Reader, fileKey, contentType string) (*entity.Post, error) {
	args := m.Called(postID, callerID, callerRole, fileReader, fileKey, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) AddComment(postID, authorID string, callerRole entity.UserRole, content string) (*entity.Comment, error) {
	args := m.Called(postID, authorID, callerRole, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockPostUseCase) ListComments(postID string, limit, offset int) ([]*entity.Comment, error) {
	args := m.Called(postID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comment), args.Error(1)
}

func (m *MockPostUseCase) DeleteComment(commentID string, callerRole entity.UserRole) error {
	args := m.Called(commentID, callerRole)
	return args.Error(0)
}

var _ usecase.PostUseCase = (*MockPostUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func asUser(userID string, role entity.UserRole, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", string(role))
		next(c)
	}
}

func TestCreatePost_Created(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts", asUser("user-123", entity.RoleUser, handler.CreatePost))

	mockUseCase.On("CreatePost", "user-123", "Hello", "", "body text", []string(nil)).
		Return(&entity.Post{ID: "post-1", Title: "Hello", Status: entity.StatusDraft}, nil)

	payload, _ := json.Marshal(map[string]string{"title": "Hello", "body": "body text"})
	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestCreatePost_MissingTitle(t *testing.T) {
	handler := NewPostHandler(new(MockPostUseCase), logger.New())

	router := setupTestRouter()
	router.POST("/posts", asUser("user-123", entity.RoleUser, handler.CreatePost))

	payload, _ := json.Marshal(map[string]string{"body": "body text"})
	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitForReview_OK(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/submit", asUser("user-123", entity.RoleUser, handler.SubmitForReview))

	mockUseCase.On("SubmitForReview", "post-1", "user-123", entity.RoleUser).
		Return(&entity.Post{ID: "post-1", Status: entity.StatusPending}, nil)

	req := httptest.NewRequest(http.MethodPost, "/posts/post-1/submit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PENDING")
}

func TestSubmitForReview_WrongStateConflict(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/submit", asUser("user-123", entity.RoleUser, handler.SubmitForReview))

	mockUseCase.On("SubmitForReview", "post-1", "user-123", entity.RoleUser).
		Return(nil, usecase.ErrInvalidTransition)

	req := httptest.NewRequest(http.MethodPost, "/posts/post-1/submit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChangeStatus_ForbiddenForNonAdmin(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PUT("/admin/posts/:id/status", asUser("user-123", entity.RoleRedacteur, handler.ChangeStatus))

	mockUseCase.On("ChangeStatus", "post-1", entity.RoleRedacteur, entity.StatusPublished).
		Return(nil, usecase.ErrPermissionDenied)

	payload, _ := json.Marshal(map[string]string{"status": "PUBLISHED"})
	req := httptest.NewRequest(http.MethodPut, "/admin/posts/post-1/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetBySlug_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts/slug/:slug", handler.GetBySlug)

	mockUseCase.On("GetPublishedBySlug", mock.Anything, "missing").
		Return(nil, "", usecase.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/posts/slug/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBySlug_ReturnsRenderedHTML(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts/slug/:slug", handler.GetBySlug)

	mockUseCase.On("GetPublishedBySlug", mock.Anything, "hello").
		Return(&entity.Post{ID: "post-1", Slug: "hello"}, "<h1>Hello</h1>", nil)

	req := httptest.NewRequest(http.MethodGet, "/posts/slug/hello", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "<h1>Hello</h1>", body["html"])
}

func TestDeletePost_Forbidden(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.DELETE("/posts/:id", asUser("user-123", entity.RoleUser, handler.DeletePost))

	mockUseCase.On("DeletePost", "post-1", "user-123", entity.RoleUser).
		Return(usecase.ErrPermissionDenied)

	req := httptest.NewRequest(http.MethodDelete, "/posts/post-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
