package wedding

import "errors"

var (
	ErrWeddingNotFound   = errors.New("wedding not found")
	ErrAlreadyHasWedding = errors.New("owner already has a wedding")
	ErrTitleRequired     = errors.New("title is required")
)
