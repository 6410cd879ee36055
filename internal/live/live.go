// Package live configures realtime mirrors for every entity a planner
// watches: ordering, scoping, joins and the toasts each change raises.
package live

import (
	"context"
	"strings"

	"wedding-app-go/internal/domain/budget"
	"wedding-app-go/internal/domain/contributions"
	"wedding-app-go/internal/domain/guests"
	"wedding-app-go/internal/domain/seating"
	"wedding-app-go/internal/domain/vendors"
	"wedding-app-go/internal/realtime"
	"wedding-app-go/pkg/logger"
)

const weddingColumn = "wedding_id"

// Source provides snapshots and point lookups. Wedding-level lists belong to
// the caller's wedding; child lists take the parent id.
type Source interface {
	ListGuests(ctx context.Context) ([]guests.Guest, error)
	GuestName(ctx context.Context, guestID string) (string, error)

	ListTables(ctx context.Context) ([]seating.Table, error)
	ListSeats(ctx context.Context, tableID string) ([]seating.Seat, error)

	ListCategories(ctx context.Context) ([]budget.Category, error)
	ListExpenses(ctx context.Context) ([]budget.Expense, error)

	ListVendors(ctx context.Context) ([]vendors.Vendor, error)
	ListAppointments(ctx context.Context, vendorID string) ([]vendors.Appointment, error)
	ListContracts(ctx context.Context, vendorID string) ([]vendors.Contract, error)
	ListPayments(ctx context.Context, vendorID string) ([]vendors.Payment, error)
	ListReviews(ctx context.Context, vendorID string) ([]vendors.Review, error)

	ListPhotos(ctx context.Context) ([]contributions.Photo, error)
	ListComments(ctx context.Context, photoID string) ([]contributions.Comment, error)
	ListSongs(ctx context.Context) ([]contributions.SongRequest, error)
}

type Deps struct {
	Feed     realtime.Feed
	Source   Source
	Notifier realtime.Notifier
	Log      logger.Logger
}

// Watch is what a caller passes for one mirror: the scope value and an
// optional state callback.
type Watch[T any] struct {
	Scope    string
	OnChange func(realtime.State[T])
}

func newMirror[T any](d Deps, w Watch[T], cfg realtime.Config[T]) *realtime.Mirror[T] {
	cfg.ScopeRequired = true
	cfg.Notifier = d.Notifier
	cfg.OnChange = w.OnChange
	cfg.Log = d.Log
	return realtime.NewMirror(d.Feed, cfg, w.Scope)
}

// wedding fetches a wedding-level list; the scope is already applied by the
// authenticated source.
func wedding[T any](fetch func(context.Context) ([]T, error)) func(context.Context, string) ([]T, error) {
	return func(ctx context.Context, _ string) ([]T, error) {
		return fetch(ctx)
	}
}

// nameBefore orders rows by name the way the lists are served, ignoring case.
func nameBefore(a, b string) bool {
	if la, lb := strings.ToLower(a), strings.ToLower(b); la != lb {
		return la < lb
	}
	return a < b
}
