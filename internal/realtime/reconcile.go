package realtime

import "slices"

type Placement int

const (
	Prepend Placement = iota
	Append
)

// Options parameterize Reconcile for one entity type.
type Options[T any] struct {
	ID        func(T) string
	Placement Placement
	// Merge combines the local row with the incoming one on update. It is the
	// place to carry client-only fields the event payload does not have.
	Merge func(prev, next T) T
	// Less, when set, keeps the list sorted after inserts.
	Less func(a, b T) bool
}

// Reconcile applies one change to items and reports whether the list changed.
// The input slice is never modified.
func Reconcile[T any](items []T, change Change[T], opts Options[T]) ([]T, bool) {
	record := change.Record()
	if record == nil || opts.ID == nil {
		return items, false
	}
	id := opts.ID(*record)
	idx := indexOf(items, id, opts.ID)

	switch change.Kind {
	case KindInsert:
		next := *record
		if idx >= 0 {
			out := clone(items)
			out[idx] = next
			return out, true
		}
		out := make([]T, 0, len(items)+1)
		if opts.Placement == Append {
			out = append(out, items...)
			out = append(out, next)
		} else {
			out = append(out, next)
			out = append(out, items...)
		}
		if opts.Less != nil {
			sortStable(out, opts.Less)
		}
		return out, true

	case KindUpdate:
		if idx < 0 {
			return items, false
		}
		next := *record
		if opts.Merge != nil {
			next = opts.Merge(items[idx], next)
		}
		out := clone(items)
		out[idx] = next
		if opts.Less != nil {
			sortStable(out, opts.Less)
		}
		return out, true

	case KindDelete:
		if idx < 0 {
			return items, false
		}
		out := make([]T, 0, len(items)-1)
		out = append(out, items[:idx]...)
		out = append(out, items[idx+1:]...)
		return out, true
	}

	return items, false
}

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func sortStable[T any](items []T, less func(a, b T) bool) {
	slices.SortStableFunc(items, func(a, b T) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		}
		return 0
	})
}
