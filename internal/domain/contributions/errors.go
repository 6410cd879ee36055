package contributions

import "errors"

var (
	ErrPhotoNotFound     = errors.New("photo not found")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrSongNotFound      = errors.New("song request not found")
	ErrGuestNotFound     = errors.New("guest not found")
	ErrInvalidToken      = errors.New("invalid rsvp token")
	ErrFileRequired      = errors.New("file is required")
	ErrUnsupportedType   = errors.New("only images can be uploaded")
	ErrBodyRequired      = errors.New("comment body is required")
	ErrTitleRequired     = errors.New("song title is required")
	ErrInvalidSongStatus = errors.New("invalid song request status")
	ErrCaptionTooLong    = errors.New("caption is too long")
	ErrStorageDisabled   = errors.New("file storage is not configured")
	ErrGuestNotInWedding = errors.New("guest does not belong to this wedding")
)
