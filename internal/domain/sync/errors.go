package sync

import "errors"

var (
	ErrNoOperations                  = errors.New("operations are required")
	ErrBatchTooLarge                 = errors.New("sync batch too large")
	ErrIdempotencyKeyPayloadMismatch = errors.New("idempotency key payload mismatch")
	ErrBatchInProgress               = errors.New("sync batch in progress")
	ErrSyncDisabled                  = errors.New("offline sync is disabled")
)
