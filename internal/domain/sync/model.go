package sync

import (
	"time"

	"gorm.io/datatypes"
)

const MaxBatchOperations = 100

type OperationType string

const (
	OperationTypeCreateGuest       OperationType = "create_guest"
	OperationTypeRespondRSVP       OperationType = "respond_rsvp"
	OperationTypeCreateSongRequest OperationType = "create_song_request"
	OperationTypeCreateExpense     OperationType = "create_expense"
)

type ResultStatus string

const (
	ResultStatusApplied   ResultStatus = "applied"
	ResultStatusDuplicate ResultStatus = "duplicate"
	ResultStatusFailed    ResultStatus = "failed"
)

type BatchStatus string

const (
	BatchStatusSuccess        BatchStatus = "success"
	BatchStatusPartialSuccess BatchStatus = "partial_success"
	BatchStatusFailed         BatchStatus = "failed"
)

type ErrorCode string

const (
	ErrorCodeInvalidRequest                ErrorCode = "invalid_request"
	ErrorCodeInvalidJSON                   ErrorCode = "invalid_json"
	ErrorCodeUnsupportedOperationType      ErrorCode = "unsupported_operation_type"
	ErrorCodeOperationPayloadMismatch      ErrorCode = "operation_payload_mismatch"
	ErrorCodeDependencyNotResolved         ErrorCode = "dependency_not_resolved"
	ErrorCodeValidationFailed              ErrorCode = "validation_failed"
	ErrorCodeGuestNotFound                 ErrorCode = "guest_not_found"
	ErrorCodeCategoryNotFound              ErrorCode = "category_not_found"
	ErrorCodeWeddingNotFound               ErrorCode = "wedding_not_found"
	ErrorCodeSyncBatchTooLarge             ErrorCode = "sync_batch_too_large"
	ErrorCodeIdempotencyKeyPayloadMismatch ErrorCode = "idempotency_key_payload_mismatch"
	ErrorCodeBatchInProgress               ErrorCode = "batch_in_progress"
	ErrorCodeInternalError                 ErrorCode = "internal_error"
)

type Entity string

const (
	EntityGuest       Entity = "guest"
	EntitySongRequest Entity = "song_request"
	EntityExpense     Entity = "expense"
)

type BatchState string

const (
	BatchStateProcessing BatchState = "processing"
	BatchStateCompleted  BatchState = "completed"
)

type OperationState string

const (
	OperationStatePending OperationState = "pending"
	OperationStateApplied OperationState = "applied"
	OperationStateFailed  OperationState = "failed"
)

type BatchInput struct {
	WeddingID      string
	UserID         string
	IdempotencyKey string
	Operations     []OperationInput
}

type OperationInput struct {
	OperationID       string
	Type              OperationType
	LocalID           string
	CreateGuest       *CreateGuestPayload
	RespondRSVP       *RespondRSVPPayload
	CreateSongRequest *CreateSongRequestPayload
	CreateExpense     *CreateExpensePayload
}

type CreateGuestPayload struct {
	Name                string `json:"name"`
	Email               string `json:"email,omitempty"`
	Phone               string `json:"phone,omitempty"`
	PlusOne             bool   `json:"plus_one"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty"`
	Category            string `json:"category,omitempty"`
}

// RespondRSVPPayload names the guest either by server id or by the local id
// of a create_guest operation from this or an earlier batch.
type RespondRSVPPayload struct {
	GuestID             string  `json:"guest_id,omitempty"`
	GuestLocalID        string  `json:"guest_local_id,omitempty"`
	Status              string  `json:"status"`
	PlusOne             *bool   `json:"plus_one,omitempty"`
	DietaryRestrictions *string `json:"dietary_restrictions,omitempty"`
}

type CreateSongRequestPayload struct {
	GuestID      string `json:"guest_id,omitempty"`
	GuestLocalID string `json:"guest_local_id,omitempty"`
	Title        string `json:"title"`
	Artist       string `json:"artist,omitempty"`
}

type CreateExpensePayload struct {
	CategoryID *string    `json:"category_id,omitempty"`
	Name       string     `json:"name"`
	Amount     float64    `json:"amount"`
	Status     string     `json:"status,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

type BatchResponse struct {
	SyncID     string            `json:"sync_id"`
	Status     BatchStatus       `json:"status"`
	Summary    BatchSummary      `json:"summary"`
	Results    []OperationResult `json:"results"`
	Mappings   []EntityMapping   `json:"mappings"`
	ServerTime time.Time         `json:"server_time"`
}

type BatchSummary struct {
	Total     int `json:"total"`
	Applied   int `json:"applied"`
	Duplicate int `json:"duplicate"`
	Failed    int `json:"failed"`
}

type OperationResult struct {
	OperationID string          `json:"operation_id"`
	Type        OperationType   `json:"type"`
	Status      ResultStatus    `json:"status"`
	LocalID     *string         `json:"local_id,omitempty"`
	Entity      *Entity         `json:"entity,omitempty"`
	ServerID    *string         `json:"server_id,omitempty"`
	Error       *OperationError `json:"error,omitempty"`
}

type OperationError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
}

type EntityMapping struct {
	Entity   Entity `json:"entity"`
	LocalID  string `json:"local_id"`
	ServerID string `json:"server_id"`
}

type BatchRecord struct {
	ID             string         `gorm:"type:uuid;primaryKey"`
	WeddingID      string         `gorm:"type:uuid;not null;index"`
	UserID         string         `gorm:"not null;index"`
	IdempotencyKey *string        `gorm:"column:idempotency_key"`
	RequestHash    string         `gorm:"not null"`
	Status         BatchState     `gorm:"not null"`
	ResponseJSON   datatypes.JSON `gorm:"type:jsonb;column:response_json"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (BatchRecord) TableName() string {
	return "sync_batches"
}

type OperationRecord struct {
	ID            string         `gorm:"type:uuid;primaryKey"`
	WeddingID     string         `gorm:"type:uuid;not null;index"`
	UserID        string         `gorm:"not null;index"`
	OperationID   string         `gorm:"type:uuid;not null"`
	OperationType OperationType  `gorm:"not null;column:operation_type"`
	PayloadHash   string         `gorm:"not null;column:payload_hash"`
	LocalID       *string        `gorm:"column:local_id"`
	Status        OperationState `gorm:"not null"`
	Entity        *Entity        `gorm:"column:entity"`
	ServerID      *string        `gorm:"type:uuid;column:server_id"`
	ErrorCode     *ErrorCode     `gorm:"column:error_code"`
	ErrorMessage  *string        `gorm:"column:error_message"`
	Retryable     *bool          `gorm:"column:retryable"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (OperationRecord) TableName() string {
	return "sync_operations"
}
