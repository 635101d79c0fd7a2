package http

import (
	"fmt"
	"net/http"
	"path/filepath"

	"metalya/internal/entity"
	"metalya/internal/usecase"
	"metalya/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Title      string   `json:"title" binding:"required"`
	Excerpt    string   `json:"excerpt"`
	Body       string   `json:"body" binding:"required"`
	Categories []string `json:"categories"`
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Create a new post in DRAFT for the authenticated author
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Post content"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postUseCase.CreatePost(c.GetString("user_id"), req.Title, req.Excerpt, req.Body, req.Categories)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// ListPublished godoc
// @Summary      List published posts
// @Description  Public feed of PUBLISHED posts, newest first, with optional category filter
// @Tags         posts
// @Produce      json
// @Param        category query string false "Filter by category"
// @Param        limit query int false "Page size (max 100)"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /posts [get]
func (h *PostHandler) ListPublished(c *gin.Context) {
	limit, offset := pagination(c)

	posts, err := h.postUseCase.ListPublished(limit, offset, c.Query("category"))
	if err != nil {
		h.logger.Error("Failed to list posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts), "offset": offset})
}

// GetBySlug godoc
// @Summary      Read a published post
// @Description  Public article page: the post plus its body rendered to HTML
// @Tags         posts
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/slug/{slug} [get]
func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, html, err := h.postUseCase.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "html": html})
}

// GetPost godoc
// @Summary      Get a post by ID
// @Description  Authenticated detail view. Unpublished posts are visible only to their author and to staff.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postUseCase.GetPost(c.Param("id"), c.GetString("user_id"), callerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// MyPosts godoc
// @Summary      List own posts
// @Description  All of the caller's posts in every status
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size (max 100)"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /posts/mine [get]
func (h *PostHandler) MyPosts(c *gin.Context) {
	limit, offset := pagination(c)

	posts, err := h.postUseCase.GetAuthorPosts(c.GetString("user_id"), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list author posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts), "offset": offset})
}

// ListByStatus godoc
// @Summary      List posts by status
// @Description  Admin-area view of posts in a given lifecycle status
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        status query string true "Post status" Enums(DRAFT, PENDING, PUBLISHED, ARCHIVED)
// @Param        limit query int false "Page size (max 100)"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /admin/posts [get]
func (h *PostHandler) ListByStatus(c *gin.Context) {
	limit, offset := pagination(c)
	status := entity.PostStatus(c.DefaultQuery("status", string(entity.StatusPending)))

	posts, err := h.postUseCase.ListByStatus(callerRole(c), status, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts), "offset": offset})
}

type UpdatePostRequest struct {
	Title      *string  `json:"title"`
	Excerpt    *string  `json:"excerpt"`
	Body       *string  `json:"body"`
	Categories []string `json:"categories"`
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Edit post content. Authors edit their own unpublished posts; admins edit anything.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body UpdatePostRequest true "Fields to update"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postUseCase.UpdatePost(
		c.Param("id"), c.GetString("user_id"), callerRole(c),
		req.Title, req.Excerpt, req.Body, req.Categories,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// SubmitForReview godoc
// @Summary      Submit for review
// @Description  Move the caller's DRAFT post to PENDING
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /posts/{id}/submit [post]
func (h *PostHandler) SubmitForReview(c *gin.Context) {
	post, err := h.postUseCase.SubmitForReview(c.Param("id"), c.GetString("user_id"), callerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// WithdrawFromReview godoc
// @Summary      Withdraw from review
// @Description  Move the caller's PENDING post back to DRAFT
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /posts/{id}/withdraw [post]
func (h *PostHandler) WithdrawFromReview(c *gin.Context) {
	post, err := h.postUseCase.WithdrawFromReview(c.Param("id"), c.GetString("user_id"), callerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus godoc
// @Summary      Change a post's status
// @Description  Admin moderation: move a post to any lifecycle status
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body ChangeStatusRequest true "Target status" SchemaExample({"status":"PUBLISHED"})
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /admin/posts/{id}/status [put]
func (h *PostHandler) ChangeStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postUseCase.ChangeStatus(c.Param("id"), callerRole(c), entity.PostStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Authors delete their own unpublished posts; published posts need an admin.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postUseCase.DeletePost(c.Param("id"), c.GetString("user_id"), callerRole(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// UploadCover godoc
// @Summary      Upload a cover image
// @Description  Attach a cover image to a post
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        cover formData file true "Image file (jpg/jpeg/png)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /posts/{id}/cover [post]
func (h *PostHandler) UploadCover(c *gin.Context) {
	fileHeader, err := c.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cover file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read cover file"})
		return
	}
	defer file.Close()

	postID := c.Param("id")
	key := fmt.Sprintf("covers/%s/%s%s", postID, uuid.New().String(), filepath.Ext(fileHeader.Filename))

	post, err := h.postUseCase.UploadCover(postID, c.GetString("user_id"), callerRole(c), file, key, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("Failed to upload cover: %v", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// AddComment godoc
// @Summary      Comment on a post
// @Description  Add a comment as the authenticated user
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body AddCommentRequest true "Comment content"
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.postUseCase.AddComment(c.Param("id"), c.GetString("user_id"), callerRole(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListComments godoc
// @Summary      List comments
// @Description  Comments on a post, newest first
// @Tags         comments
// @Produce      json
// @Param        id path string true "Post ID"
// @Param        limit query int false "Page size (max 100)"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /posts/{id}/comments [get]
func (h *PostHandler) ListComments(c *gin.Context) {
	limit, offset := pagination(c)

	comments, err := h.postUseCase.ListComments(c.Param("id"), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list comments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments, "count": len(comments), "offset": offset})
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Moderation: remove a comment. Reserved to admins.
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/comments/{id} [delete]
func (h *PostHandler) DeleteComment(c *gin.Context) {
	if err := h.postUseCase.DeleteComment(c.Param("id"), callerRole(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
