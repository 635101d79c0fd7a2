package entity

import "time"

type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusPending   PostStatus = "PENDING"
	StatusPublished PostStatus = "PUBLISHED"
	StatusArchived  PostStatus = "ARCHIVED"
)

// Post is a publishable article. Status is the single source of truth for
// the lifecycle; the legacy published boolean only exists as a storage
// column derived from it.
type Post struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	CoverURL    string     `json:"cover_url"`
	ReadingTime int        `json:"reading_time"`
	Categories  []string   `json:"categories"`
	Status      PostStatus `json:"status"`
	AuthorID    string     `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
