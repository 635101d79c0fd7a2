package persistent

import (
	"metalya/internal/entity"
	"metalya/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *entity.Post) error
	GetByID(id string) (*entity.Post, error)
	GetBySlug(slug string) (*entity.Post, error)
	GetByAuthorID(authorID string, limit, offset int) ([]*entity.Post, error)
	List(limit, offset int, category string, status entity.PostStatus) ([]*entity.Post, error)
	Update(post *entity.Post) error
	UpdateStatus(id string, status entity.PostStatus) error
	Delete(id string) error
	CreateComment(comment *entity.Comment) error
	GetComment(id string) (*entity.Comment, error)
	ListComments(postID string, limit, offset int) ([]*entity.Comment, error)
	DeleteComment(id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *entity.Post) error {
	postModel := ToPostModel(post)
	if postModel.ID == "" {
		postModel.ID = uuid.New().String()
	}
	if err := r.db.Create(postModel).Error; err != nil {
		return err
	}
	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) GetBySlug(slug string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.Where("slug = ?", slug).First(&postModel).Error; err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) GetByAuthorID(authorID string, limit, offset int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	query := r.db.Where("author_id = ?", authorID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

func (r *postRepository) List(limit, offset int, category string, status entity.PostStatus) ([]*entity.Post, error) {
	var postModels []model.PostModel
	query := r.db.Order("created_at DESC")

	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	if category != "" {
		// Categories are stored comma-joined; substring match is the
		// supported filter at this layer.
		query = query.Where("categories LIKE ?", "%"+category+"%")
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

func (r *postRepository) Update(post *entity.Post) error {
	return r.db.Save(ToPostModel(post)).Error
}

// UpdateStatus writes the status and the derived legacy published column in
// one update so the two can never disagree.
func (r *postRepository) UpdateStatus(id string, status entity.PostStatus) error {
	return r.db.Model(&model.PostModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":    string(status),
		"published": status == entity.StatusPublished,
	}).Error
}

func (r *postRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.PostModel{}).Error
}

func (r *postRepository) CreateComment(comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if commentModel.ID == "" {
		commentModel.ID = uuid.New().String()
	}
	if err := r.db.Create(commentModel).Error; err != nil {
		return err
	}
	*comment = *ToCommentEntity(commentModel)
	return nil
}

func (r *postRepository) GetComment(id string) (*entity.Comment, error) {
	var commentModel model.CommentModel
	if err := r.db.Where("id = ?", id).First(&commentModel).Error; err != nil {
		return nil, err
	}
	return ToCommentEntity(&commentModel), nil
}

func (r *postRepository) ListComments(postID string, limit, offset int) ([]*entity.Comment, error) {
	var commentModels []model.CommentModel
	query := r.db.Where("post_id = ?", postID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&commentModels).Error; err != nil {
		return nil, err
	}

	comments := make([]*entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *postRepository) DeleteComment(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.CommentModel{}).Error
}
