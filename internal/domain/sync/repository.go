package sync

import "context"

// Repository persists batches and operations so a retried upload replays the
// stored outcome instead of writing twice.
type Repository interface {
	// BeginBatch inserts batch unless one with the same idempotency key
	// exists, in which case it returns false and the stored batch.
	BeginBatch(ctx context.Context, batch *BatchRecord) (bool, *BatchRecord, error)
	CompleteBatch(ctx context.Context, batchID string, status BatchState, responseJSON []byte) error
	// ReserveOperation claims an operation id for the caller; a false result
	// carries the earlier record.
	ReserveOperation(ctx context.Context, operation *OperationRecord) (bool, *OperationRecord, error)
	UpdateOperation(ctx context.Context, operation *OperationRecord) error
	// FindServerIDByLocalID maps an id minted offline to the row it created.
	FindServerIDByLocalID(ctx context.Context, weddingID, userID string, entity Entity, localID string) (string, bool, error)
}
