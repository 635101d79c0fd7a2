package usecase

import "errors"

// Sentinel errors returned by the use cases. Handlers map these to HTTP
// statuses with errors.Is; anything else is logged and surfaced as a
// generic failure so internal detail never reaches the client.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("invalid input")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNoSubscribers      = errors.New("no active subscribers")
	ErrCampaignSent       = errors.New("campaign already sent")
	ErrInvalidToken       = errors.New("invalid reset token")
	ErrExpiredToken       = errors.New("reset token expired")
	ErrUserNotFound       = errors.New("user not found")
)
