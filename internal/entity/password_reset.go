package entity

import "time"

// PasswordResetToken is single-use: redemption deletes the row, there is no
// separate "used" flag.
type PasswordResetToken struct {
	Token     string    `json:"-"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
