// Package realtime carries row-level change notifications between the table
// store and the in-memory mirrors that clients keep of it.
//
// A change travels as an Envelope (JSON rows, table name, kind) over a Feed.
// Mirror decodes envelopes into typed Change values and folds them into a
// local list with Reconcile.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

type Kind string

const (
	KindInsert Kind = "INSERT"
	KindUpdate Kind = "UPDATE"
	KindDelete Kind = "DELETE"
)

func (k Kind) Valid() bool {
	switch k {
	case KindInsert, KindUpdate, KindDelete:
		return true
	}
	return false
}

var (
	ErrInvalidKind   = errors.New("invalid change kind")
	ErrMissingRecord = errors.New("change has no record")
	ErrMissingTable  = errors.New("change has no table")
	ErrMirrorStarted = errors.New("mirror already started")
	ErrMirrorClosed  = errors.New("mirror closed")
	ErrFeedClosed    = errors.New("feed closed")
	ErrScopeMismatch = errors.New("change outside mirror scope")
)

// Envelope is the wire form of a change. Record holds the row after the
// change (insert, update); OldRecord the row before it (update, delete).
type Envelope struct {
	ID              string          `json:"id"`
	Table           string          `json:"table"`
	Type            Kind            `json:"type"`
	WeddingID       string          `json:"wedding_id"`
	Record          json.RawMessage `json:"record,omitempty"`
	OldRecord       json.RawMessage `json:"old_record,omitempty"`
	CommitTimestamp time.Time       `json:"commit_timestamp"`
}

func NewEnvelope(table string, kind Kind, weddingID string, record, oldRecord any) (Envelope, error) {
	if table == "" {
		return Envelope{}, ErrMissingTable
	}
	if !kind.Valid() {
		return Envelope{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	newRaw, err := marshalRecord(record)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal record: %w", err)
	}
	oldRaw, err := marshalRecord(oldRecord)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal old record: %w", err)
	}

	switch kind {
	case KindInsert, KindUpdate:
		if newRaw == nil {
			return Envelope{}, ErrMissingRecord
		}
	case KindDelete:
		if oldRaw == nil {
			return Envelope{}, ErrMissingRecord
		}
	}

	return Envelope{
		ID:              ulid.Make().String(),
		Table:           table,
		Type:            kind,
		WeddingID:       weddingID,
		Record:          newRaw,
		OldRecord:       oldRaw,
		CommitTimestamp: time.Now().UTC(),
	}, nil
}

func marshalRecord(record any) (json.RawMessage, error) {
	if record == nil {
		return nil, nil
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	return raw, nil
}

// Change is a decoded Envelope.
type Change[T any] struct {
	Table string
	Kind  Kind
	New   *T
	Old   *T
	At    time.Time
}

// Record returns the row a change is about: the new row for inserts and
// updates, the old row for deletes.
func (c Change[T]) Record() *T {
	if c.Kind == KindDelete {
		if c.Old != nil {
			return c.Old
		}
		return c.New
	}
	return c.New
}

func Decode[T any](env Envelope) (Change[T], error) {
	if !env.Type.Valid() {
		return Change[T]{}, fmt.Errorf("%w: %q", ErrInvalidKind, env.Type)
	}

	change := Change[T]{
		Table: env.Table,
		Kind:  env.Type,
		At:    env.CommitTimestamp,
	}

	if len(env.Record) > 0 && string(env.Record) != "null" {
		var record T
		if err := json.Unmarshal(env.Record, &record); err != nil {
			return Change[T]{}, fmt.Errorf("decode %s record: %w", env.Table, err)
		}
		change.New = &record
	}
	if len(env.OldRecord) > 0 && string(env.OldRecord) != "null" {
		var record T
		if err := json.Unmarshal(env.OldRecord, &record); err != nil {
			return Change[T]{}, fmt.Errorf("decode %s old record: %w", env.Table, err)
		}
		change.Old = &record
	}

	if change.Record() == nil {
		return Change[T]{}, ErrMissingRecord
	}

	return change, nil
}

func Insert[T any](table string, record T) Change[T] {
	return Change[T]{Table: table, Kind: KindInsert, New: &record, At: time.Now().UTC()}
}

func Update[T any](table string, record T) Change[T] {
	return Change[T]{Table: table, Kind: KindUpdate, New: &record, At: time.Now().UTC()}
}

func Delete[T any](table string, record T) Change[T] {
	return Change[T]{Table: table, Kind: KindDelete, Old: &record, At: time.Now().UTC()}
}
