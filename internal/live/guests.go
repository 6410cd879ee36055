package live

import (
	"fmt"

	"wedding-app-go/internal/domain/guests"
	"wedding-app-go/internal/realtime"
)

// Guests mirrors the guest list, newest first.
func Guests(d Deps, w Watch[guests.Guest]) *realtime.Mirror[guests.Guest] {
	return newMirror(d, w, realtime.Config[guests.Guest]{
		Name:        "guests",
		Table:       guests.Table,
		ScopeColumn: weddingColumn,
		ScopeKey:    func(g guests.Guest) string { return g.WeddingID },
		Options: realtime.Options[guests.Guest]{
			ID:        func(g guests.Guest) string { return g.ID },
			Placement: realtime.Prepend,
		},
		Fetch:  wedding(d.Source.ListGuests),
		Notify: guestToast,
	})
}

func guestToast(change realtime.Change[guests.Guest], prev *guests.Guest) (realtime.Toast, bool) {
	if change.Kind != realtime.KindUpdate || change.New == nil {
		return realtime.Toast{}, false
	}
	next := *change.New

	if prev != nil && prev.RSVPStatus != next.RSVPStatus && next.RSVPStatus != guests.RSVPPending {
		toast := realtime.Toast{
			Title:   "New RSVP",
			Message: fmt.Sprintf("%s has %s", next.Name, next.RSVPStatus),
			Variant: realtime.VariantSuccess,
		}
		if next.RSVPStatus == guests.RSVPDeclined {
			toast.Variant = realtime.VariantDefault
		}
		return toast, true
	}
	return realtime.Toast{
		Title:   "Guest Updated",
		Message: fmt.Sprintf("%s was updated", next.Name),
		Variant: realtime.VariantDefault,
	}, true
}
