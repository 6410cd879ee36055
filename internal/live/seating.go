package live

import (
	"encoding/json"
	"fmt"

	"wedding-app-go/internal/domain/guests"
	"wedding-app-go/internal/domain/seating"
	"wedding-app-go/internal/realtime"
)

// Tables mirrors the floor plan. Dragging a table only changes its position
// and raises no toast.
func Tables(d Deps, w Watch[seating.Table]) *realtime.Mirror[seating.Table] {
	return newMirror(d, w, realtime.Config[seating.Table]{
		Name:        "tables",
		Table:       seating.TablesTable,
		ScopeColumn: weddingColumn,
		ScopeKey:    func(t seating.Table) string { return t.WeddingID },
		Options: realtime.Options[seating.Table]{
			ID:        func(t seating.Table) string { return t.ID },
			Placement: realtime.Append,
		},
		Fetch:  wedding(d.Source.ListTables),
		Notify: tableToast,
	})
}

func tableToast(change realtime.Change[seating.Table], prev *seating.Table) (realtime.Toast, bool) {
	if change.Kind != realtime.KindUpdate || change.New == nil {
		return realtime.Toast{}, false
	}
	if prev != nil && prev.OnlyMoved(*change.New) {
		return realtime.Toast{}, false
	}
	return realtime.Toast{
		Title:   "Table Updated",
		Message: fmt.Sprintf("%s now seats %d", change.New.Name, change.New.Capacity),
		Variant: realtime.VariantDefault,
	}, true
}

// Seats mirrors the seats of one table. Guest renames and deletions are
// folded in from the guests table, since deleting a guest frees its seat
// without a seat change of its own.
func Seats(d Deps, w Watch[seating.Seat]) *realtime.Mirror[seating.Seat] {
	return newMirror(d, w, realtime.Config[seating.Seat]{
		Name:        "seats",
		Table:       seating.SeatsTable,
		ScopeColumn: "table_id",
		ScopeKey:    func(s seating.Seat) string { return s.TableID },
		Options: realtime.Options[seating.Seat]{
			ID:        func(s seating.Seat) string { return s.ID },
			Placement: realtime.Append,
			Merge:     mergeSeat,
			Less:      func(a, b seating.Seat) bool { return a.Number < b.Number },
		},
		Fetch: d.Source.ListSeats,
		Notify: func(change realtime.Change[seating.Seat], prev *seating.Seat) (realtime.Toast, bool) {
			if change.Kind != realtime.KindUpdate || change.New == nil || change.New.GuestID == nil {
				return realtime.Toast{}, false
			}
			if prev != nil && sameGuest(prev.GuestID, change.New.GuestID) {
				return realtime.Toast{}, false
			}
			return realtime.Toast{
				Title:   "Seat Assigned",
				Message: fmt.Sprintf("%s sits at seat %d", seatGuestName(*change.New), change.New.Number),
				Variant: realtime.VariantSuccess,
			}, true
		},
		Related: []realtime.Related[seating.Seat]{{
			Table: guests.Table,
			Apply: applyGuestToSeats,
		}},
	})
}

func mergeSeat(prev, next seating.Seat) seating.Seat {
	if next.GuestName == "" && next.GuestID != nil && sameGuest(prev.GuestID, next.GuestID) {
		next.GuestName = prev.GuestName
	}
	return next
}

// applyGuestToSeats patches the seated guest's name on update and frees the
// seat on delete.
func applyGuestToSeats(items []seating.Seat, env realtime.Envelope) ([]seating.Seat, bool) {
	var guest struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	raw := env.Record
	if env.Type == realtime.KindDelete {
		raw = env.OldRecord
	}
	if env.Type == realtime.KindInsert || len(raw) == 0 {
		return items, false
	}
	if err := json.Unmarshal(raw, &guest); err != nil || guest.ID == "" {
		return items, false
	}

	var out []seating.Seat
	for i, seat := range items {
		if seat.GuestID == nil || *seat.GuestID != guest.ID {
			continue
		}
		if env.Type == realtime.KindUpdate && seat.GuestName == guest.Name {
			continue
		}
		if out == nil {
			out = append([]seating.Seat(nil), items...)
		}
		if env.Type == realtime.KindDelete {
			out[i].GuestID = nil
			out[i].GuestName = ""
		} else {
			out[i].GuestName = guest.Name
		}
	}
	if out == nil {
		return items, false
	}
	return out, true
}

func sameGuest(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func seatGuestName(seat seating.Seat) string {
	if seat.GuestName == "" {
		return realtime.UnknownLabel
	}
	return seat.GuestName
}
