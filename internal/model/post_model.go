package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostModel struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	Slug        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Excerpt     string         `gorm:"type:text" json:"excerpt"`
	Body        string         `gorm:"type:text" json:"body"`
	CoverURL    string         `gorm:"type:varchar(500)" json:"cover_url"`
	ReadingTime int            `gorm:"default:0" json:"reading_time"`
	Categories  string         `gorm:"type:varchar(500)" json:"categories"`
	Status      string         `gorm:"type:varchar(20);default:'DRAFT';index" json:"status"`
	// Legacy column kept for query compatibility; always derived from Status
	// by the mapper, never written independently.
	Published bool           `gorm:"default:false;index" json:"published"`
	AuthorID  string         `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type CommentModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	PostID    string         `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CommentModel) TableName() string {
	return "comments"
}

func (c *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
