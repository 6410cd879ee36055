package guests

import "errors"

var (
	ErrGuestNotFound     = errors.New("guest not found")
	ErrInvalidToken      = errors.New("invalid rsvp token")
	ErrNameRequired      = errors.New("name is required")
	ErrInvalidRSVPStatus = errors.New("invalid rsvp status")
	ErrNoContact         = errors.New("guest has no email or phone")
	ErrNotifierDisabled  = errors.New("invitations are not configured")
)
