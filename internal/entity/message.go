package entity

import "time"

// Message is an internal-inbox message. Sending to N recipients creates N
// MessageRecipient rows; each recipient owns only their own row. The
// message itself outlives individual recipient deletions.
type Message struct {
	ID         string             `json:"id"`
	Subject    string             `json:"subject"`
	Content    string             `json:"content"`
	SenderID   string             `json:"sender_id"`
	Recipients []MessageRecipient `json:"recipients,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

type MessageRecipient struct {
	ID          string     `json:"id"`
	MessageID   string     `json:"message_id"`
	RecipientID string     `json:"recipient_id"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}
