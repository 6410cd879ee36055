package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	syncdomain "wedding-app-go/internal/domain/sync"
	"wedding-app-go/internal/transport/httpserver/middleware"
)

const (
	minIdempotencyKeyLength = 8
	maxIdempotencyKeyLength = 128
)

type syncBatchRequest struct {
	Operations []syncOperationRequest `json:"operations"`
}

type syncOperationRequest struct {
	OperationID string          `json:"operation_id"`
	Type        string          `json:"type"`
	LocalID     string          `json:"local_id"`
	Payload     json.RawMessage `json:"payload"`
}

type syncCreateGuestRequest struct {
	Name                string `json:"name" validate:"required,max=200"`
	Email               string `json:"email" validate:"omitempty,email"`
	Phone               string `json:"phone" validate:"max=40"`
	PlusOne             bool   `json:"plus_one"`
	DietaryRestrictions string `json:"dietary_restrictions" validate:"max=500"`
	Category            string `json:"category" validate:"max=100"`
}

type syncRespondRSVPRequest struct {
	GuestID             *string `json:"guest_id"`
	GuestLocalID        *string `json:"guest_local_id"`
	Status              string  `json:"status" validate:"required,oneof=confirmed declined"`
	PlusOne             *bool   `json:"plus_one"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
}

type syncCreateSongRequest struct {
	GuestID      *string `json:"guest_id"`
	GuestLocalID *string `json:"guest_local_id"`
	Title        string  `json:"title" validate:"required,max=200"`
	Artist       string  `json:"artist" validate:"max=200"`
}

type syncCreateExpenseRequest struct {
	CategoryID *string  `json:"category_id"`
	Name       string   `json:"name" validate:"required,max=200"`
	Amount     *float64 `json:"amount" validate:"required,gte=0"`
	Status     string   `json:"status" validate:"omitempty,oneof=paid pending cancelled"`
	DueDate    *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handlers) SyncBatch(w http.ResponseWriter, r *http.Request) {
	startedAt := time.Now()

	var req syncBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if len(req.Operations) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "operations are required")
		return
	}
	if len(req.Operations) > syncdomain.MaxBatchOperations {
		writeError(w, http.StatusRequestEntityTooLarge, "sync_batch_too_large", "too many operations in one batch")
		return
	}

	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idempotencyKey != "" && len(idempotencyKey) < minIdempotencyKeyLength {
		writeError(w, http.StatusBadRequest, "invalid_request", "idempotency key is too short")
		return
	}
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		writeError(w, http.StatusBadRequest, "invalid_request", "idempotency key is too long")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	wedding, ok := RequestWedding(w, r)
	if !ok {
		return
	}

	operations := make([]syncdomain.OperationInput, 0, len(req.Operations))
	for i, operation := range req.Operations {
		parsed, err := parseSyncOperation(operation)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid operation at index "+strconv.Itoa(i)+": "+err.Error())
			return
		}
		operations = append(operations, parsed)
	}

	response, err := h.Sync.ProcessBatch(r.Context(), syncdomain.BatchInput{
		WeddingID:      wedding.ID,
		UserID:         user.ID,
		IdempotencyKey: idempotencyKey,
		Operations:     operations,
	})
	if err != nil {
		logAttrs := []any{
			"user_id", user.ID,
			"wedding_id", wedding.ID,
			"operations", len(operations),
			"has_idempotency_key", idempotencyKey != "",
			"duration_ms", time.Since(startedAt).Milliseconds(),
		}

		switch {
		case errors.Is(err, syncdomain.ErrBatchTooLarge):
			h.log.BusinessError("sync.batch: batch too large", err, logAttrs...)
			writeError(w, http.StatusRequestEntityTooLarge, "sync_batch_too_large", "too many operations in one batch")
		case errors.Is(err, syncdomain.ErrIdempotencyKeyPayloadMismatch):
			h.log.BusinessError("sync.batch: idempotency key payload mismatch", err, logAttrs...)
			writeError(w, http.StatusConflict, "idempotency_key_payload_mismatch", "Idempotency-Key was already used with different payload")
		case errors.Is(err, syncdomain.ErrBatchInProgress):
			h.log.BusinessError("sync.batch: batch in progress", err, logAttrs...)
			writeError(w, http.StatusConflict, "batch_in_progress", "sync batch is already in progress")
		default:
			h.log.InternalError("sync.batch: process batch failed", err, logAttrs...)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	h.log.Info(
		"sync: completed",
		"sync_id", response.SyncID,
		"user_id", user.ID,
		"wedding_id", wedding.ID,
		"status", response.Status,
		"total", response.Summary.Total,
		"applied", response.Summary.Applied,
		"duplicate", response.Summary.Duplicate,
		"failed", response.Summary.Failed,
		"has_idempotency_key", idempotencyKey != "",
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)

	writeJSON(w, http.StatusOK, response)
}

func parseSyncOperation(operation syncOperationRequest) (syncdomain.OperationInput, error) {
	operationID := strings.TrimSpace(operation.OperationID)
	if err := uuid.Validate(operationID); err != nil {
		return syncdomain.OperationInput{}, errors.New("invalid operation_id")
	}

	operationType := syncdomain.OperationType(strings.TrimSpace(operation.Type))
	localID := strings.TrimSpace(operation.LocalID)

	result := syncdomain.OperationInput{
		OperationID: operationID,
		Type:        operationType,
		LocalID:     localID,
	}

	switch operationType {
	case syncdomain.OperationTypeCreateGuest:
		var payload syncCreateGuestRequest
		if err := decodePayload(operation.Payload, &payload); err != nil {
			return syncdomain.OperationInput{}, err
		}
		result.CreateGuest = &syncdomain.CreateGuestPayload{
			Name:                payload.Name,
			Email:               payload.Email,
			Phone:               payload.Phone,
			PlusOne:             payload.PlusOne,
			DietaryRestrictions: payload.DietaryRestrictions,
			Category:            payload.Category,
		}
		return result, nil

	case syncdomain.OperationTypeRespondRSVP:
		var payload syncRespondRSVPRequest
		if err := decodePayload(operation.Payload, &payload); err != nil {
			return syncdomain.OperationInput{}, err
		}
		guestID := NormalizeStringPtr(payload.GuestID)
		guestLocalID := NormalizeStringPtr(payload.GuestLocalID)
		if guestID == nil && guestLocalID == nil {
			return syncdomain.OperationInput{}, errors.New("guest_id or guest_local_id is required")
		}
		result.RespondRSVP = &syncdomain.RespondRSVPPayload{
			GuestID:             valueOrEmpty(guestID),
			GuestLocalID:        valueOrEmpty(guestLocalID),
			Status:              payload.Status,
			PlusOne:             payload.PlusOne,
			DietaryRestrictions: payload.DietaryRestrictions,
		}
		return result, nil

	case syncdomain.OperationTypeCreateSongRequest:
		var payload syncCreateSongRequest
		if err := decodePayload(operation.Payload, &payload); err != nil {
			return syncdomain.OperationInput{}, err
		}
		result.CreateSongRequest = &syncdomain.CreateSongRequestPayload{
			GuestID:      valueOrEmpty(NormalizeStringPtr(payload.GuestID)),
			GuestLocalID: valueOrEmpty(NormalizeStringPtr(payload.GuestLocalID)),
			Title:        payload.Title,
			Artist:       payload.Artist,
		}
		return result, nil

	case syncdomain.OperationTypeCreateExpense:
		var payload syncCreateExpenseRequest
		if err := decodePayload(operation.Payload, &payload); err != nil {
			return syncdomain.OperationInput{}, err
		}
		dueDate, err := ParseDatePtr(payload.DueDate)
		if err != nil {
			return syncdomain.OperationInput{}, err
		}
		result.CreateExpense = &syncdomain.CreateExpensePayload{
			CategoryID: NormalizeStringPtr(payload.CategoryID),
			Name:       payload.Name,
			Amount:     *payload.Amount,
			Status:     payload.Status,
			DueDate:    dueDate,
		}
		return result, nil

	default:
		return result, nil
	}
}

func decodePayload(raw json.RawMessage, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("invalid payload")
	}
	if err := validate.Struct(dst); err != nil {
		return errors.New(ValidationMessage(err))
	}
	return nil
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
