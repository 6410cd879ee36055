package sync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	budgetdomain "wedding-app-go/internal/domain/budget"
	contributionsdomain "wedding-app-go/internal/domain/contributions"
	guestsdomain "wedding-app-go/internal/domain/guests"
	"wedding-app-go/pkg/logger"
)

type GuestsService interface {
	Create(ctx context.Context, input guestsdomain.CreateInput) (*guestsdomain.Guest, error)
	Get(ctx context.Context, weddingID, id string) (*guestsdomain.Guest, error)
	RespondByToken(ctx context.Context, input guestsdomain.RespondInput) (*guestsdomain.Guest, error)
}

type SongsService interface {
	RequestSong(ctx context.Context, input contributionsdomain.SongInput) (*contributionsdomain.SongRequest, error)
}

type BudgetService interface {
	CreateExpense(ctx context.Context, input budgetdomain.CreateExpenseInput) (*budgetdomain.Expense, error)
}

type Service struct {
	repo   Repository
	guests GuestsService
	songs  SongsService
	budget BudgetService
	log    logger.Logger
}

func NewService(repo Repository, guests GuestsService, songs SongsService, budget BudgetService, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:   repo,
		guests: guests,
		songs:  songs,
		budget: budget,
		log:    log.Component("sync"),
	}
}

// ProcessBatch replays deferred submissions in order. Every operation is
// reserved by its operation id first, so a replayed operation is reported
// as a duplicate instead of being applied twice. With an idempotency key the
// whole response is stored and returned again for an identical request.
func (s *Service) ProcessBatch(ctx context.Context, input BatchInput) (*BatchResponse, error) {
	if len(input.Operations) == 0 {
		return nil, ErrNoOperations
	}
	if len(input.Operations) > MaxBatchOperations {
		return nil, ErrBatchTooLarge
	}

	syncID := uuid.NewString()
	requestHash, err := hashRequest(input.Operations)
	if err != nil {
		return nil, err
	}

	idempotencyKey := strings.TrimSpace(input.IdempotencyKey)
	batchCreated := false

	if idempotencyKey != "" {
		batch := &BatchRecord{
			ID:             syncID,
			WeddingID:      input.WeddingID,
			UserID:         input.UserID,
			IdempotencyKey: &idempotencyKey,
			RequestHash:    requestHash,
			Status:         BatchStateProcessing,
		}

		created, existing, err := s.repo.BeginBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		if !created {
			if existing == nil {
				return nil, ErrBatchInProgress
			}
			if existing.RequestHash != requestHash {
				return nil, ErrIdempotencyKeyPayloadMismatch
			}
			if existing.Status == BatchStateCompleted && len(existing.ResponseJSON) > 0 {
				var cached BatchResponse
				if err := json.Unmarshal(existing.ResponseJSON, &cached); err == nil {
					return &cached, nil
				}
			}
			return nil, ErrBatchInProgress
		}

		batchCreated = true
	}

	response := BatchResponse{
		SyncID:     syncID,
		Results:    make([]OperationResult, 0, len(input.Operations)),
		Mappings:   make([]EntityMapping, 0),
		Summary:    BatchSummary{Total: len(input.Operations)},
		ServerTime: time.Now().UTC(),
	}

	localGuestIDs := make(map[string]string)

	for _, operation := range input.Operations {
		result, mapping := s.processOperation(ctx, input, operation, localGuestIDs)
		response.Results = append(response.Results, result)
		if mapping != nil {
			response.Mappings = append(response.Mappings, *mapping)
			if mapping.Entity == EntityGuest {
				localGuestIDs[mapping.LocalID] = mapping.ServerID
			}
		}

		switch result.Status {
		case ResultStatusApplied:
			response.Summary.Applied++
		case ResultStatusDuplicate:
			response.Summary.Duplicate++
		default:
			response.Summary.Failed++
		}
	}

	response.Status = deriveBatchStatus(response.Summary)

	if batchCreated {
		encoded, err := json.Marshal(response)
		if err == nil {
			err = s.repo.CompleteBatch(ctx, syncID, BatchStateCompleted, encoded)
		}
		if err != nil {
			s.log.InternalError("sync.batch: store response failed", err, "sync_id", syncID)
		}
	}

	return &response, nil
}

func (s *Service) processOperation(ctx context.Context, input BatchInput, operation OperationInput, localGuestIDs map[string]string) (OperationResult, *EntityMapping) {
	base := OperationResult{
		OperationID: operation.OperationID,
		Type:        operation.Type,
	}

	payloadHash, err := hashOperation(operation)
	if err != nil {
		return failResult(base, ErrorCodeInternalError, "internal error", true), nil
	}

	reserved := &OperationRecord{
		ID:            uuid.NewString(),
		WeddingID:     input.WeddingID,
		UserID:        input.UserID,
		OperationID:   operation.OperationID,
		OperationType: operation.Type,
		PayloadHash:   payloadHash,
		LocalID:       nonEmptyStringPtr(operation.LocalID),
		Status:        OperationStatePending,
	}

	created, existing, err := s.repo.ReserveOperation(ctx, reserved)
	if err != nil {
		s.log.InternalError("sync.operation: reserve failed", err, "operation_id", operation.OperationID)
		return failResult(base, ErrorCodeInternalError, "internal error", true), nil
	}
	if !created {
		return resultFromExisting(base, operation, existing, payloadHash)
	}

	result := base
	var mapping *EntityMapping

	entity, serverID, applyErr := s.apply(ctx, input, operation, localGuestIDs)
	if applyErr != nil {
		code, message, retryable := classify(applyErr)
		if code == ErrorCodeInternalError {
			s.log.InternalError("sync.operation: apply failed", applyErr,
				"operation_id", operation.OperationID,
				"type", string(operation.Type),
			)
		}
		result = failResult(result, code, message, retryable)
	} else {
		result.Status = ResultStatusApplied
		result.LocalID = nonEmptyStringPtr(operation.LocalID)
		if entity != "" {
			result.Entity = &entity
			result.ServerID = nonEmptyStringPtr(serverID)
		}
		if result.LocalID != nil && result.ServerID != nil {
			mapping = &EntityMapping{
				Entity:   entity,
				LocalID:  *result.LocalID,
				ServerID: *result.ServerID,
			}
		}
	}

	updateRecord := *reserved
	if result.Status == ResultStatusApplied {
		updateRecord.Status = OperationStateApplied
		updateRecord.Entity = result.Entity
		updateRecord.ServerID = result.ServerID
	} else {
		updateRecord.Status = OperationStateFailed
		if result.Error != nil {
			code := result.Error.Code
			message := result.Error.Message
			retryable := result.Error.Retryable
			updateRecord.ErrorCode = &code
			updateRecord.ErrorMessage = &message
			updateRecord.Retryable = &retryable
		}
	}

	if err := s.repo.UpdateOperation(ctx, &updateRecord); err != nil {
		s.log.InternalError("sync.operation: update failed", err, "operation_id", operation.OperationID)
		return failResult(base, ErrorCodeInternalError, "internal error", true), nil
	}

	return result, mapping
}

var (
	errPayloadRequired   = errors.New("payload is required")
	errUnsupported       = errors.New("unsupported operation type")
	errDependencyMissing = errors.New("guest id dependency is not resolved")
)

func (s *Service) apply(ctx context.Context, input BatchInput, operation OperationInput, localGuestIDs map[string]string) (Entity, string, error) {
	switch operation.Type {
	case OperationTypeCreateGuest:
		payload := operation.CreateGuest
		if payload == nil {
			return "", "", errPayloadRequired
		}
		guest, err := s.guests.Create(ctx, guestsdomain.CreateInput{
			WeddingID:           input.WeddingID,
			Name:                payload.Name,
			Email:               payload.Email,
			Phone:               payload.Phone,
			PlusOne:             payload.PlusOne,
			DietaryRestrictions: payload.DietaryRestrictions,
			Category:            payload.Category,
		})
		if err != nil {
			return "", "", err
		}
		return EntityGuest, guest.ID, nil

	case OperationTypeRespondRSVP:
		payload := operation.RespondRSVP
		if payload == nil {
			return "", "", errPayloadRequired
		}
		guestID, err := s.resolveGuestID(ctx, input, payload.GuestID, payload.GuestLocalID, localGuestIDs)
		if err != nil {
			return "", "", err
		}
		if guestID == "" {
			return "", "", errDependencyMissing
		}
		guest, err := s.guests.Get(ctx, input.WeddingID, guestID)
		if err != nil {
			return "", "", err
		}
		if _, err := s.guests.RespondByToken(ctx, guestsdomain.RespondInput{
			Token:               guest.RSVPToken,
			Status:              guestsdomain.RSVPStatus(payload.Status),
			PlusOne:             payload.PlusOne,
			DietaryRestrictions: payload.DietaryRestrictions,
		}); err != nil {
			return "", "", err
		}
		return EntityGuest, guest.ID, nil

	case OperationTypeCreateSongRequest:
		payload := operation.CreateSongRequest
		if payload == nil {
			return "", "", errPayloadRequired
		}
		guestID, err := s.resolveGuestID(ctx, input, payload.GuestID, payload.GuestLocalID, localGuestIDs)
		if err != nil {
			return "", "", err
		}
		song, err := s.songs.RequestSong(ctx, contributionsdomain.SongInput{
			WeddingID: input.WeddingID,
			GuestID:   nonEmptyStringPtr(guestID),
			Title:     payload.Title,
			Artist:    payload.Artist,
		})
		if err != nil {
			return "", "", err
		}
		return EntitySongRequest, song.ID, nil

	case OperationTypeCreateExpense:
		payload := operation.CreateExpense
		if payload == nil {
			return "", "", errPayloadRequired
		}
		expense, err := s.budget.CreateExpense(ctx, budgetdomain.CreateExpenseInput{
			WeddingID:  input.WeddingID,
			CategoryID: payload.CategoryID,
			Name:       payload.Name,
			Amount:     payload.Amount,
			Status:     budgetdomain.Status(payload.Status),
			DueDate:    payload.DueDate,
		})
		if err != nil {
			return "", "", err
		}
		return EntityExpense, expense.ID, nil
	}

	return "", "", errUnsupported
}

// resolveGuestID returns the server id of the referenced guest. A local id
// is looked up in the current batch first, then in earlier batches. Both ids
// empty means no guest was referenced.
func (s *Service) resolveGuestID(ctx context.Context, input BatchInput, guestID, localID string, localGuestIDs map[string]string) (string, error) {
	if id := strings.TrimSpace(guestID); id != "" {
		return id, nil
	}

	localID = strings.TrimSpace(localID)
	if localID == "" {
		return "", nil
	}
	if id := strings.TrimSpace(localGuestIDs[localID]); id != "" {
		return id, nil
	}

	id, found, err := s.repo.FindServerIDByLocalID(ctx, input.WeddingID, input.UserID, EntityGuest, localID)
	if err != nil {
		return "", err
	}
	if !found || strings.TrimSpace(id) == "" {
		return "", errDependencyMissing
	}
	return id, nil
}

func classify(err error) (ErrorCode, string, bool) {
	switch {
	case errors.Is(err, errPayloadRequired):
		return ErrorCodeInvalidRequest, err.Error(), false
	case errors.Is(err, errUnsupported):
		return ErrorCodeUnsupportedOperationType, err.Error(), false
	case errors.Is(err, errDependencyMissing):
		return ErrorCodeDependencyNotResolved, err.Error(), false
	case errors.Is(err, guestsdomain.ErrGuestNotFound),
		errors.Is(err, guestsdomain.ErrInvalidToken),
		errors.Is(err, contributionsdomain.ErrGuestNotFound),
		errors.Is(err, contributionsdomain.ErrGuestNotInWedding):
		return ErrorCodeGuestNotFound, "guest not found", false
	case errors.Is(err, budgetdomain.ErrCategoryNotFound):
		return ErrorCodeCategoryNotFound, "category not found", false
	case errors.Is(err, guestsdomain.ErrNameRequired),
		errors.Is(err, guestsdomain.ErrInvalidRSVPStatus),
		errors.Is(err, contributionsdomain.ErrTitleRequired),
		errors.Is(err, budgetdomain.ErrNameRequired),
		errors.Is(err, budgetdomain.ErrInvalidAmount),
		errors.Is(err, budgetdomain.ErrInvalidStatus):
		return ErrorCodeValidationFailed, err.Error(), false
	}
	return ErrorCodeInternalError, "internal error", true
}

func resultFromExisting(base OperationResult, operation OperationInput, existing *OperationRecord, payloadHash string) (OperationResult, *EntityMapping) {
	if existing == nil {
		return failResult(base, ErrorCodeBatchInProgress, "operation is being processed", true), nil
	}
	if existing.PayloadHash != payloadHash {
		return failResult(base, ErrorCodeOperationPayloadMismatch, "operation_id already used with different payload", false), nil
	}
	if existing.Status == OperationStatePending {
		return failResult(base, ErrorCodeBatchInProgress, "operation is being processed", true), nil
	}

	result := base
	result.LocalID = firstNonNil(existing.LocalID, nonEmptyStringPtr(operation.LocalID))

	if existing.Status == OperationStateFailed {
		result.Status = ResultStatusFailed
		result.Error = &OperationError{
			Code:      ErrorCodeInternalError,
			Message:   "internal error",
			Retryable: true,
		}
		if existing.ErrorCode != nil {
			result.Error = &OperationError{
				Code:      *existing.ErrorCode,
				Message:   valueOr(existing.ErrorMessage, "operation failed"),
				Retryable: valueOr(existing.Retryable, false),
			}
		}
		return result, nil
	}

	result.Status = ResultStatusDuplicate
	result.Entity = cloneValue(existing.Entity)
	result.ServerID = cloneValue(existing.ServerID)

	if result.LocalID != nil && result.ServerID != nil && result.Entity != nil {
		return result, &EntityMapping{
			Entity:   *result.Entity,
			LocalID:  *result.LocalID,
			ServerID: *result.ServerID,
		}
	}
	return result, nil
}

func failResult(base OperationResult, code ErrorCode, message string, retryable bool) OperationResult {
	base.Status = ResultStatusFailed
	base.Error = &OperationError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
	}
	return base
}

func deriveBatchStatus(summary BatchSummary) BatchStatus {
	if summary.Failed == 0 {
		return BatchStatusSuccess
	}
	if summary.Applied > 0 || summary.Duplicate > 0 {
		return BatchStatusPartialSuccess
	}
	return BatchStatusFailed
}

func hashRequest(operations []OperationInput) (string, error) {
	hashes := make([]string, 0, len(operations))
	for _, operation := range operations {
		hash, err := hashOperation(operation)
		if err != nil {
			return "", err
		}
		hashes = append(hashes, hash)
	}
	return hashValue(hashes)
}

func hashOperation(operation OperationInput) (string, error) {
	var payload interface{}
	switch operation.Type {
	case OperationTypeCreateGuest:
		payload = operation.CreateGuest
	case OperationTypeRespondRSVP:
		payload = operation.RespondRSVP
	case OperationTypeCreateSongRequest:
		payload = operation.CreateSongRequest
	case OperationTypeCreateExpense:
		payload = operation.CreateExpense
	default:
		payload = map[string]string{"type": string(operation.Type)}
	}

	value := struct {
		Type    OperationType `json:"type"`
		LocalID string        `json:"local_id,omitempty"`
		Payload interface{}   `json:"payload"`
	}{
		Type:    operation.Type,
		LocalID: operation.LocalID,
		Payload: payload,
	}
	return hashValue(value)
}

func hashValue(value interface{}) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

func cloneValue[T any](value *T) *T {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func nonEmptyStringPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func firstNonNil[T any](values ...*T) *T {
	for _, value := range values {
		if value != nil {
			return value
		}
	}
	return nil
}

func valueOr[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}
	return *value
}
