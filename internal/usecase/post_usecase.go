package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"metalya/internal/entity"
	"metalya/internal/policy"
	"metalya/internal/repo/persistent"
	"metalya/pkg/logger"
	"metalya/pkg/markdown"
	"metalya/pkg/s3"

	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
)

const (
	publishedListKey = "posts:published"
	postCacheTTL     = 24 * time.Hour

	// Rough words-per-minute for the reading time estimate.
	readingWPM = 200
)

func postSlugKey(s string) string {
	return fmt.Sprintf("post:slug:%s", s)
}

type PostUseCase interface {
	CreatePost(authorID string, title, excerpt, body string, categories []string) (*entity.Post, error)
	GetPost(postID, callerID string, callerRole entity.UserRole) (*entity.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*entity.Post, string, error)
	ListPublished(limit, offset int, category string) ([]*entity.Post, error)
	ListByStatus(callerRole entity.UserRole, status entity.PostStatus, limit, offset int) ([]*entity.Post, error)
	GetAuthorPosts(authorID string, limit, offset int) ([]*entity.Post, error)
	UpdatePost(postID, callerID string, callerRole entity.UserRole, title, excerpt, body *string, categories []string) (*entity.Post, error)
	SubmitForReview(postID, callerID string, callerRole entity.UserRole) (*entity.Post, error)
	WithdrawFromReview(postID, callerID string, callerRole entity.UserRole) (*entity.Post, error)
	ChangeStatus(postID string, callerRole entity.UserRole, status entity.PostStatus) (*entity.Post, error)
	DeletePost(postID, callerID string, callerRole entity.UserRole) error
	UploadCover(postID, callerID string, callerRole entity.UserRole, fileReader io.Reader, fileKey, contentType string) (*entity.Post, error)
	AddComment(postID, authorID string, callerRole entity.UserRole, content string) (*entity.Comment, error)
	ListComments(postID string, limit, offset int) ([]*entity.Comment, error)
	DeleteComment(commentID string, callerRole entity.UserRole) error
}

type postUseCase struct {
	postRepo    persistent.PostRepository
	s3Client    *s3.Client
	redisClient *redis.Client
	renderer    *markdown.Renderer
	logger      *logger.Logger
	dropCache   func(keys ...string)
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	s3Client *s3.Client,
	redisClient *redis.Client,
	renderer *markdown.Renderer,
	logger *logger.Logger,
) PostUseCase {
	uc := &postUseCase{
		postRepo:    postRepo,
		s3Client:    s3Client,
		redisClient: redisClient,
		renderer:    renderer,
		logger:      logger,
	}
	uc.dropCache = uc.dropRedisKeys
	return uc
}

func (uc *postUseCase) CreatePost(authorID string, title, excerpt, body string, categories []string) (*entity.Post, error) {
	if title == "" || body == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrValidation)
	}

	post := &entity.Post{
		Slug:        slug.Make(title),
		Title:       title,
		Excerpt:     excerpt,
		Body:        body,
		ReadingTime: estimateReadingTime(body),
		Categories:  categories,
		Status:      entity.StatusDraft,
		AuthorID:    authorID,
	}

	if err := uc.postRepo.Create(post); err != nil {
		uc.logger.Error("Failed to create post: %v", err)
		return nil, fmt.Errorf("failed to create post")
	}

	uc.invalidateListings(post.Slug)
	return post, nil
}

// GetPost is the authenticated detail view. Unpublished posts are visible
// only to their author and to staff; everyone else gets a 404, not a 403,
// so their existence is not leaked.
func (uc *postUseCase) GetPost(postID, callerID string, callerRole entity.UserRole) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !post.IsPublished() && post.AuthorID != callerID && !policy.CanViewAdminArea(callerRole) {
		return nil, ErrNotFound
	}
	return post, nil
}

// GetPublishedBySlug serves the public article page: the post plus its body
// rendered to HTML. Hits redis first; only PUBLISHED posts are visible here.
func (uc *postUseCase) GetPublishedBySlug(ctx context.Context, postSlug string) (*entity.Post, string, error) {
	if uc.redisClient != nil {
		if cached, err := uc.redisClient.Get(ctx, postSlugKey(postSlug)).Result(); err == nil {
			var page cachedPostPage
			if err := json.Unmarshal([]byte(cached), &page); err == nil {
				return page.Post, page.HTML, nil
			}
		}
	}

	post, err := uc.postRepo.GetBySlug(postSlug)
	if err != nil {
		return nil, "", ErrNotFound
	}
	if !post.IsPublished() {
		return nil, "", ErrNotFound
	}

	html, err := uc.renderer.Render(post.Body)
	if err != nil {
		uc.logger.Error("Failed to render post %s: %v", post.ID, err)
		return nil, "", fmt.Errorf("failed to render post")
	}

	if uc.redisClient != nil {
		if data, err := json.Marshal(cachedPostPage{Post: post, HTML: html}); err == nil {
			uc.redisClient.Set(ctx, postSlugKey(postSlug), data, postCacheTTL)
		}
	}

	return post, html, nil
}

type cachedPostPage struct {
	Post *entity.Post `json:"post"`
	HTML string       `json:"html"`
}

func (uc *postUseCase) ListPublished(limit, offset int, category string) ([]*entity.Post, error) {
	// Only the default first page is cached; filtered or paginated views go
	// straight to the database.
	cacheable := category == "" && offset == 0
	ctx := context.Background()

	if cacheable && uc.redisClient != nil {
		if cached, err := uc.redisClient.Get(ctx, publishedListKey).Result(); err == nil {
			var posts []*entity.Post
			if err := json.Unmarshal([]byte(cached), &posts); err == nil {
				return posts, nil
			}
		}
	}

	posts, err := uc.postRepo.List(limit, offset, category, entity.StatusPublished)
	if err != nil {
		return nil, err
	}

	if cacheable && uc.redisClient != nil {
		if data, err := json.Marshal(posts); err == nil {
			uc.redisClient.Set(ctx, publishedListKey, data, postCacheTTL)
		}
	}
	return posts, nil
}

func (uc *postUseCase) ListByStatus(callerRole entity.UserRole, status entity.PostStatus, limit, offset int) ([]*entity.Post, error) {
	if !policy.CanViewAdminArea(callerRole) {
		return nil, ErrPermissionDenied
	}
	return uc.postRepo.List(limit, offset, "", status)
}

func (uc *postUseCase) GetAuthorPosts(authorID string, limit, offset int) ([]*entity.Post, error) {
	return uc.postRepo.GetByAuthorID(authorID, limit, offset)
}

func (uc *postUseCase) UpdatePost(postID, callerID string, callerRole entity.UserRole, title, excerpt, body *string, categories []string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, ErrNotFound
	}

	// Authors edit their own work while it is not yet published; after
	// publication only admins may touch it.
	isAuthor := post.AuthorID == callerID
	isAdmin := policy.CanChangePostStatus(callerRole)
	if !isAdmin && (!isAuthor || post.IsPublished()) {
		return nil, ErrPermissionDenied
	}

	// A title edit rewrites the slug, so remember the one the post was
	// cached under before mutating.
	oldSlug := post.Slug
	if title != nil {
		if *title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		post.Title = *title
		post.Slug = slug.Make(*title)
	}
	if excerpt != nil {
		post.Excerpt = *excerpt
	}
	if body != nil {
		if *body == "" {
			return nil, fmt.Errorf("%w: body cannot be empty", ErrValidation)
		}
		post.Body = *body
		post.ReadingTime = estimateReadingTime(*body)
	}
	if categories != nil {
		post.Categories = categories
	}

	if err := uc.postRepo.Update(post); err != nil {
		uc.logger.Error("Failed to update post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to update post")
	}

	uc.invalidateListings(oldSlug, post.Slug)
	return post, nil
}

// SubmitForReview is the author-driven DRAFT->PENDING step.
func (uc *postUseCase) SubmitForReview(postID, callerID string, callerRole entity.UserRole) (*entity.Post, error) {
	return uc.authorTransition(postID, callerID, callerRole, entity.StatusDraft, entity.StatusPending)
}

// WithdrawFromReview is the author-driven PENDING->DRAFT step.
func (uc *postUseCase) WithdrawFromReview(postID, callerID string, callerRole entity.UserRole) (*entity.Post, error) {
	return uc.authorTransition(postID, callerID, callerRole, entity.StatusPending, entity.StatusDraft)
}

func (uc *postUseCase) authorTransition(postID, callerID string, callerRole entity.UserRole, from, to entity.PostStatus) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, ErrNotFound
	}

	if !policy.CanSubmitForReview(callerRole, post.AuthorID == callerID) {
		return nil, ErrPermissionDenied
	}
	if post.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, post.Status, to)
	}

	if err := uc.postRepo.UpdateStatus(postID, to); err != nil {
		uc.logger.Error("Failed to update status of post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to update post status")
	}

	post.Status = to
	uc.invalidateListings(post.Slug)
	return post, nil
}

// ChangeStatus moves a post into any lifecycle state, including into and
// out of PUBLISHED. Reserved to admins; the status enum and the legacy
// published column are written together by the repository.
func (uc *postUseCase) ChangeStatus(postID string, callerRole entity.UserRole, status entity.PostStatus) (*entity.Post, error) {
	if !policy.CanChangePostStatus(callerRole) {
		return nil, ErrPermissionDenied
	}

	switch status {
	case entity.StatusDraft, entity.StatusPending, entity.StatusPublished, entity.StatusArchived:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := uc.postRepo.UpdateStatus(postID, status); err != nil {
		uc.logger.Error("Failed to update status of post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to update post status")
	}

	post.Status = status
	uc.invalidateListings(post.Slug)
	return post, nil
}

func (uc *postUseCase) DeletePost(postID, callerID string, callerRole entity.UserRole) error {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return ErrNotFound
	}

	if !policy.CanDeletePost(callerRole, post.AuthorID == callerID, post.Status) {
		return ErrPermissionDenied
	}

	if err := uc.postRepo.Delete(postID); err != nil {
		uc.logger.Error("Failed to delete post %s: %v", postID, err)
		return fmt.Errorf("failed to delete post")
	}

	uc.invalidateListings(post.Slug)
	return nil
}

func (uc *postUseCase) UploadCover(postID, callerID string, callerRole entity.UserRole, fileReader io.Reader, fileKey, contentType string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, ErrNotFound
	}

	isAuthor := post.AuthorID == callerID
	if !policy.CanChangePostStatus(callerRole) && (!isAuthor || post.IsPublished()) {
		return nil, ErrPermissionDenied
	}

	coverURL, err := uc.s3Client.UploadFile(fileKey, fileReader, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload cover: %v", err)
		return nil, fmt.Errorf("failed to upload cover")
	}

	post.CoverURL = coverURL
	if err := uc.postRepo.Update(post); err != nil {
		uc.logger.Error("Failed to update post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to update post")
	}

	uc.invalidateListings(post.Slug)
	return post, nil
}

func (uc *postUseCase) AddComment(postID, authorID string, callerRole entity.UserRole, content string) (*entity.Comment, error) {
	if !policy.CanComment(callerRole) {
		return nil, ErrPermissionDenied
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	if _, err := uc.postRepo.GetByID(postID); err != nil {
		return nil, ErrNotFound
	}

	comment := &entity.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := uc.postRepo.CreateComment(comment); err != nil {
		uc.logger.Error("Failed to create comment: %v", err)
		return nil, fmt.Errorf("failed to create comment")
	}
	return comment, nil
}

func (uc *postUseCase) ListComments(postID string, limit, offset int) ([]*entity.Comment, error) {
	return uc.postRepo.ListComments(postID, limit, offset)
}

func (uc *postUseCase) DeleteComment(commentID string, callerRole entity.UserRole) error {
	if !policy.CanDeleteComment(callerRole) {
		return ErrPermissionDenied
	}
	if _, err := uc.postRepo.GetComment(commentID); err != nil {
		return ErrNotFound
	}
	return uc.postRepo.DeleteComment(commentID)
}

// invalidateListings drops the cached public views a post mutation can make
// stale: the published list plus the page of every slug the post has been
// served under. A rename passes both the old and the new slug.
func (uc *postUseCase) invalidateListings(slugs ...string) {
	keys := []string{publishedListKey}
	seen := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		keys = append(keys, postSlugKey(s))
	}
	uc.dropCache(keys...)
}

func (uc *postUseCase) dropRedisKeys(keys ...string) {
	if uc.redisClient == nil {
		return
	}
	if err := uc.redisClient.Del(context.Background(), keys...).Err(); err != nil {
		uc.logger.Warn("Failed to invalidate post listings: %v", err)
	}
}

func estimateReadingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + readingWPM - 1) / readingWPM
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
