package vendors

import "errors"

var (
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrContractNotFound    = errors.New("contract not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrNameRequired        = errors.New("name is required")
	ErrTitleRequired       = errors.New("title is required")
	ErrStartRequired       = errors.New("start time is required")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrInvalidStatus       = errors.New("invalid payment status")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrOwnReview           = errors.New("cannot vote on own review")
	ErrVoteNotFound        = errors.New("vote not found")
	ErrFileRequired        = errors.New("file is required")
	ErrPaymentNotPending   = errors.New("payment is not pending")
	ErrRecipientRequired   = errors.New("reminder recipient is required")
	ErrStorageDisabled     = errors.New("file storage is not configured")
	ErrNotifierDisabled    = errors.New("notifications are not configured")
)
