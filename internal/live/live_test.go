package live

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"wedding-app-go/internal/domain/budget"
	"wedding-app-go/internal/domain/contributions"
	"wedding-app-go/internal/domain/guests"
	"wedding-app-go/internal/domain/seating"
	"wedding-app-go/internal/domain/vendors"
	"wedding-app-go/internal/realtime"
)

type fakeSource struct {
	mu         sync.Mutex
	guests     []guests.Guest
	tables     []seating.Table
	seats      map[string][]seating.Seat
	expenses   []budget.Expense
	categories []budget.Category
	vendors    []vendors.Vendor
	comments   map[string][]contributions.Comment
	names      map[string]string
	nameErr    error
	fetches    int
	failFetch  error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		seats:    map[string][]seating.Seat{},
		comments: map[string][]contributions.Comment{},
		names:    map[string]string{},
	}
}

func (s *fakeSource) count() {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()
}

func (s *fakeSource) ListGuests(context.Context) ([]guests.Guest, error) {
	s.count()
	return s.guests, s.failFetch
}

func (s *fakeSource) GuestName(_ context.Context, guestID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameErr != nil {
		return "", s.nameErr
	}
	return s.names[guestID], nil
}

func (s *fakeSource) failNames(err error) {
	s.mu.Lock()
	s.nameErr = err
	s.mu.Unlock()
}

func (s *fakeSource) ListTables(context.Context) ([]seating.Table, error) {
	s.count()
	return s.tables, nil
}

func (s *fakeSource) ListSeats(_ context.Context, tableID string) ([]seating.Seat, error) {
	s.count()
	return s.seats[tableID], nil
}

func (s *fakeSource) ListCategories(context.Context) ([]budget.Category, error) {
	s.count()
	return s.categories, nil
}

func (s *fakeSource) ListExpenses(context.Context) ([]budget.Expense, error) {
	s.count()
	return s.expenses, nil
}

func (s *fakeSource) ListVendors(context.Context) ([]vendors.Vendor, error) {
	s.count()
	return s.vendors, nil
}

func (s *fakeSource) ListAppointments(context.Context, string) ([]vendors.Appointment, error) {
	s.count()
	return nil, nil
}

func (s *fakeSource) ListContracts(context.Context, string) ([]vendors.Contract, error) {
	s.count()
	return nil, nil
}

func (s *fakeSource) ListPayments(context.Context, string) ([]vendors.Payment, error) {
	s.count()
	return nil, nil
}

func (s *fakeSource) ListReviews(context.Context, string) ([]vendors.Review, error) {
	s.count()
	return nil, nil
}

func (s *fakeSource) ListPhotos(context.Context) ([]contributions.Photo, error) {
	s.count()
	return nil, nil
}

func (s *fakeSource) ListComments(_ context.Context, photoID string) ([]contributions.Comment, error) {
	s.count()
	return s.comments[photoID], nil
}

func (s *fakeSource) ListSongs(context.Context) ([]contributions.SongRequest, error) {
	s.count()
	return nil, nil
}

type toasts chan realtime.Toast

func (t toasts) Notify(toast realtime.Toast) {
	t <- toast
}

func (t toasts) next(tb testing.TB) realtime.Toast {
	tb.Helper()
	select {
	case toast := <-t:
		return toast
	case <-time.After(5 * time.Second):
		tb.Fatalf("no toast raised")
		return realtime.Toast{}
	}
}

func setup(t *testing.T) (*realtime.Hub, *fakeSource, toasts, Deps) {
	t.Helper()
	hub := realtime.NewHub(16)
	t.Cleanup(func() { _ = hub.Close() })
	source := newFakeSource()
	notes := make(toasts, 16)
	return hub, source, notes, Deps{Feed: hub, Source: source, Notifier: notes}
}

func states[T any]() (chan realtime.State[T], func(realtime.State[T])) {
	ch := make(chan realtime.State[T], 32)
	return ch, func(state realtime.State[T]) { ch <- state }
}

func next[T any](t *testing.T, ch chan realtime.State[T]) realtime.State[T] {
	t.Helper()
	select {
	case state := <-ch:
		return state
	case <-time.After(5 * time.Second):
		t.Fatalf("no state change")
		return realtime.State[T]{}
	}
}

func publish(t *testing.T, hub *realtime.Hub, table string, kind realtime.Kind, record, old any) {
	t.Helper()
	env, err := realtime.NewEnvelope(table, kind, "w1", record, old)
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	if err := hub.Publish(context.Background(), env); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func strPtr(value string) *string {
	return &value
}

func TestCommentInsertJoinsNameWithFallback(t *testing.T) {
	hub, source, notes, deps := setup(t)
	source.names["g1"] = "Ana"

	ch, onChange := states[contributions.Comment]()
	mirror := Comments(deps, Watch[contributions.Comment]{Scope: "p1", OnChange: onChange})
	defer mirror.Close()
	assert.Equal(t, mirror.Start(context.Background()), nil)
	next(t, ch)

	publish(t, hub, contributions.CommentsTable, realtime.KindInsert,
		contributions.Comment{ID: "c1", WeddingID: "w1", PhotoID: "p1", GuestID: strPtr("g1"), Body: "lovely"}, nil)
	state := next(t, ch)
	assert.Equal(t, state.Items[0].GuestName, "Ana")
	assert.Equal(t, notes.next(t).Message, "Ana: lovely")

	source.failNames(errors.New("lookup failed"))
	publish(t, hub, contributions.CommentsTable, realtime.KindInsert,
		contributions.Comment{ID: "c2", WeddingID: "w1", PhotoID: "p1", GuestID: strPtr("g2"), Body: "wow"}, nil)
	state = next(t, ch)
	assert.Equal(t, len(state.Items), 2)
	assert.Equal(t, state.Items[1].GuestName, realtime.UnknownLabel)
	assert.Equal(t, notes.next(t).Message, realtime.UnknownLabel+": wow")

	publish(t, hub, contributions.CommentsTable, realtime.KindUpdate,
		contributions.Comment{ID: "c1", WeddingID: "w1", PhotoID: "p1", GuestID: strPtr("g1"), Body: "lovely!"}, nil)
	state = next(t, ch)
	assert.Equal(t, state.Items[0].Body, "lovely!")
	assert.Equal(t, state.Items[0].GuestName, "Ana")
}

func TestCommentsOfOtherPhotoDiscarded(t *testing.T) {
	hub, _, _, deps := setup(t)

	ch, onChange := states[contributions.Comment]()
	mirror := Comments(deps, Watch[contributions.Comment]{Scope: "p1", OnChange: onChange})
	defer mirror.Close()
	assert.Equal(t, mirror.Start(context.Background()), nil)
	next(t, ch)

	publish(t, hub, contributions.CommentsTable, realtime.KindInsert,
		contributions.Comment{ID: "x", WeddingID: "w1", PhotoID: "p2", Body: "elsewhere"}, nil)
	publish(t, hub, contributions.CommentsTable, realtime.KindInsert,
		contributions.Comment{ID: "c1", WeddingID: "w1", PhotoID: "p1", Body: "here"}, nil)

	state := next(t, ch)
	assert.Equal(t, len(state.Items), 1)
	assert.Equal(t, state.Items[0].ID, "c1")
}

func TestSeatsWithoutTableStayIdle(t *testing.T) {
	_, source, _, deps := setup(t)

	mirror := Seats(deps, Watch[seating.Seat]{})
	defer mirror.Close()
	assert.Equal(t, mirror.Start(context.Background()), nil)

	state := mirror.State()
	assert.Equal(t, state.Loading, false)
	assert.Equal(t, len(state.Items), 0)
	assert.Equal(t, source.fetches, 0)
}

func TestTableMoveIsSilent(t *testing.T) {
	hub, source, notes, deps := setup(t)
	source.tables = []seating.Table{{ID: "t1", WeddingID: "w1", Name: "Family", Capacity: 8, Shape: seating.ShapeRound}}

	ch, onChange := states[seating.Table]()
	mirror := Tables(deps, Watch[seating.Table]{Scope: "w1", OnChange: onChange})
	defer mirror.Close()
	assert.Equal(t, mirror.Start(context.Background()), nil)
	next(t, ch)

	moved := source.tables[0]
	moved.PositionX = 120
	publish(t, hub, seating.TablesTable, realtime.KindUpdate, moved, source.tables[0])
	state := next(t, ch)
	assert.Equal(t, state.Items[0].PositionX, float64(120))

	resized := moved
	resized.Capacity = 10
	publish(t, hub, seating.TablesTable, realtime.KindUpdate, resized, moved)
	next(t, ch)
	assert.Equal(t, notes.next(t).Title, "Table Updated")
	assert.Equal(t, len(notes), 0)
}

func TestSeatsFollowGuestChanges(t *testing.T) {
	hub, source, _, deps := setup(t)
	source.seats["t1"] = []seating.Seat{
		{ID: "s1", WeddingID: "w1", TableID: "t1", Number: 1, GuestID: strPtr("g1"), GuestName: "Ana"},
		{ID: "s2", WeddingID: "w1", TableID: "t1", Number: 2},
	}

	ch, onChange := states[seating.Seat]()
	mirror := Seats(deps, Watch[seating.Seat]{Scope: "t1", OnChange: onChange})
	defer mirror.Close()
	assert.Equal(t, mirror.Start(context.Background()), nil)
	next(t, ch)

	publish(t, hub, guests.Table, realtime.KindUpdate, guests.Guest{ID: "g1", WeddingID: "w1", Name: "Ana Silva"}, nil)
	state := next(t, ch)
	assert.Equal(t, state.Items[0].GuestName, "Ana Silva")

	publish(t, hub, guests.Table, realtime.KindDelete, nil, guests.Guest{ID: "g1", WeddingID: "w1"})
	state = next(t, ch)
	assert.Equal(t, state.Items[0].GuestID == nil, true)
	assert.Equal(t, state.Items[0].GuestName, "")
}

func TestGuestRSVPToast(t *testing.T) {
	hub, source, notes, deps := setup(t)
	source.guests = []guests.Guest{{ID: "g1", WeddingID: "w1", Name: "Ana", RSVPStatus: guests.RSVPPending}}

	ch, onChange := states[guests.Guest]()
	mirror := Guests(deps, Watch[guests.Guest]{Scope: "w1", OnChange: onChange})
	defer mirror.Close()
	assert.Equal(t, mirror.Start(context.Background()), nil)
	next(t, ch)

	publish(t, hub, guests.Table, realtime.KindUpdate,
		guests.Guest{ID: "g1", WeddingID: "w1", Name: "Ana", RSVPStatus: guests.RSVPConfirmed}, nil)
	next(t, ch)
	publish(t, hub, guests.Table, realtime.KindUpdate,
		guests.Guest{ID: "g1", WeddingID: "w1", Name: "Ana", RSVPStatus: guests.RSVPConfirmed, Phone: "123"}, nil)
	next(t, ch)

	rsvp := notes.next(t)
	assert.Equal(t, rsvp.Title, "New RSVP")
	assert.Equal(t, rsvp.Message, "Ana has confirmed")
	assert.Equal(t, rsvp.Variant, realtime.VariantSuccess)
	assert.Equal(t, notes.next(t).Title, "Guest Updated")
}

func TestGuestSnapshotFailure(t *testing.T) {
	_, source, _, deps := setup(t)
	source.failFetch = errors.New("boom")

	mirror := Guests(deps, Watch[guests.Guest]{Scope: "w1"})
	defer mirror.Close()
	assert.NotEqual(t, mirror.Start(context.Background()), nil)

	state := mirror.State()
	assert.Equal(t, state.Loading, false)
	assert.Equal(t, state.Err, source.failFetch)
}

func TestExpensesOrderedByDueDate(t *testing.T) {
	hub, source, _, deps := setup(t)
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	may := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	source.expenses = []budget.Expense{
		{ID: "e1", WeddingID: "w1", Name: "Venue", DueDate: &march},
		{ID: "e2", WeddingID: "w1", Name: "Cake", DueDate: &may},
	}

	ch, onChange := states[budget.Expense]()
	mirror := Expenses(deps, Watch[budget.Expense]{Scope: "w1", OnChange: onChange})
	defer mirror.Close()
	assert.Equal(t, mirror.Start(context.Background()), nil)
	next(t, ch)

	april := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	publish(t, hub, budget.ExpensesTable, realtime.KindInsert, budget.Expense{ID: "e3", WeddingID: "w1", Name: "Flowers", DueDate: &april}, nil)
	publish(t, hub, budget.ExpensesTable, realtime.KindInsert, budget.Expense{ID: "e4", WeddingID: "w1", Name: "Tips"}, nil)
	next(t, ch)
	state := next(t, ch)

	ids := make([]string, 0, len(state.Items))
	for _, item := range state.Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, ids, []string{"e1", "e3", "e2", "e4"})
}

func TestVendorsStaySortedByName(t *testing.T) {
	hub, source, _, deps := setup(t)
	source.vendors = []vendors.Vendor{
		{ID: "v1", WeddingID: "w1", Name: "Bloom"},
		{ID: "v2", WeddingID: "w1", Name: "Sweet Cakes"},
	}

	ch, onChange := states[vendors.Vendor]()
	mirror := Vendors(deps, Watch[vendors.Vendor]{Scope: "w1", OnChange: onChange})
	defer mirror.Close()
	assert.Equal(t, mirror.Start(context.Background()), nil)
	next(t, ch)

	publish(t, hub, vendors.VendorsTable, realtime.KindInsert, vendors.Vendor{ID: "v3", WeddingID: "w1", Name: "aurora Band"}, nil)
	state := next(t, ch)

	names := make([]string, 0, len(state.Items))
	for _, item := range state.Items {
		names = append(names, item.Name)
	}
	assert.Equal(t, names, []string{"aurora Band", "Bloom", "Sweet Cakes"})
}

func TestCategoriesStaySortedByName(t *testing.T) {
	hub, source, _, deps := setup(t)
	source.categories = []budget.Category{
		{ID: "c1", WeddingID: "w1", Name: "Catering"},
		{ID: "c2", WeddingID: "w1", Name: "Venue"},
	}

	ch, onChange := states[budget.Category]()
	mirror := Categories(deps, Watch[budget.Category]{Scope: "w1", OnChange: onChange})
	defer mirror.Close()
	assert.Equal(t, mirror.Start(context.Background()), nil)
	next(t, ch)

	publish(t, hub, budget.CategoriesTable, realtime.KindInsert, budget.Category{ID: "c3", WeddingID: "w1", Name: "Music"}, nil)
	state := next(t, ch)

	ids := make([]string, 0, len(state.Items))
	for _, item := range state.Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, ids, []string{"c1", "c3", "c2"})
}
