package entity

import "time"

type NewsletterStatus string

const (
	NewsletterDraft   NewsletterStatus = "DRAFT"
	NewsletterPending NewsletterStatus = "PENDING"
	NewsletterSent    NewsletterStatus = "SENT"
)

// Newsletter is an editable campaign draft, distinct from an ad-hoc blast.
// Once SENT it is immutable.
type Newsletter struct {
	ID        string           `json:"id"`
	Subject   string           `json:"subject"`
	Content   string           `json:"content"`
	Status    NewsletterStatus `json:"status"`
	AuthorID  string           `json:"author_id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
