package realtime

import (
	"context"
	"encoding/json"
	"strconv"
)

// Filter narrows a subscription to one table and, optionally, to rows whose
// Column equals Value.
type Filter struct {
	Table  string
	Column string
	Value  string
}

func (f Filter) Scoped() bool {
	return f.Column != ""
}

// Matches is evaluated on every envelope, not only at subscribe time, since
// some drivers deliver the whole table.
func (f Filter) Matches(env Envelope) bool {
	if f.Table != "" && env.Table != f.Table {
		return false
	}
	if !f.Scoped() {
		return true
	}
	if value, ok := ColumnValue(env.Record, f.Column); ok {
		return value == f.Value
	}
	if value, ok := ColumnValue(env.OldRecord, f.Column); ok {
		return value == f.Value
	}
	// a delete that only carries the primary key cannot be scoped here;
	// the mirror drops it when the id is not in its list.
	return env.Type == KindDelete
}

// ColumnValue reads one top-level column of a JSON row as a string.
func ColumnValue(raw json.RawMessage, column string) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", false
	}
	value, ok := fields[column]
	if !ok || string(value) == "null" {
		return "", false
	}

	var text string
	if err := json.Unmarshal(value, &text); err == nil {
		return text, true
	}
	var number json.Number
	if err := json.Unmarshal(value, &number); err == nil {
		return number.String(), true
	}
	var flag bool
	if err := json.Unmarshal(value, &flag); err == nil {
		return strconv.FormatBool(flag), true
	}
	return string(value), true
}

type Subscription interface {
	Events() <-chan Envelope
	Close() error
}

type Feed interface {
	Subscribe(ctx context.Context, filter Filter) (Subscription, error)
}

type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// Driver is a feed that also accepts publications.
type Driver interface {
	Feed
	Publisher
	Close() error
}
