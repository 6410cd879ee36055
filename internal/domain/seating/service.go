package seating

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"wedding-app-go/internal/realtime"
)

const MaxCapacity = 50

type Service struct {
	repo   Repository
	events *realtime.Broadcaster
}

func NewService(repo Repository, events *realtime.Broadcaster) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) ListTables(ctx context.Context, weddingID string) ([]Table, error) {
	tables, err := s.repo.ListTables(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	if tables == nil {
		tables = []Table{}
	}
	return tables, nil
}

func (s *Service) GetTable(ctx context.Context, weddingID, id string) (*TableWithSeats, error) {
	table, err := s.repo.GetTable(ctx, weddingID, id)
	if err != nil {
		return nil, err
	}
	seats, err := s.repo.ListSeats(ctx, weddingID, id)
	if err != nil {
		return nil, err
	}
	if seats == nil {
		seats = []Seat{}
	}
	return &TableWithSeats{Table: *table, Seats: seats}, nil
}

// CreateTable creates the table and one seat per unit of capacity.
func (s *Service) CreateTable(ctx context.Context, input CreateTableInput) (*Table, error) {
	name, shape, err := validateTable(input.Name, input.Capacity, input.Shape)
	if err != nil {
		return nil, err
	}

	table := Table{
		ID:        uuid.NewString(),
		WeddingID: input.WeddingID,
		Name:      name,
		Capacity:  input.Capacity,
		Shape:     shape,
		PositionX: input.PositionX,
		PositionY: input.PositionY,
	}
	seats := newSeats(table, 1, table.Capacity)

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateTable(ctx, &table); err != nil {
			return err
		}
		return tx.CreateSeats(ctx, seats)
	})
	if err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, TablesTable, table.WeddingID, table)
	for _, seat := range seats {
		s.events.Inserted(ctx, SeatsTable, seat.WeddingID, seat)
	}
	return &table, nil
}

// UpdateTable also resizes the seat set: growing adds seats at the end,
// shrinking removes trailing seats as long as they are empty.
func (s *Service) UpdateTable(ctx context.Context, input UpdateTableInput) (*Table, error) {
	name, shape, err := validateTable(input.Name, input.Capacity, input.Shape)
	if err != nil {
		return nil, err
	}

	var (
		old     Table
		updated Table
		added   []Seat
		removed []Seat
	)
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		table, err := tx.GetTable(ctx, input.WeddingID, input.ID)
		if err != nil {
			return err
		}
		old = *table

		table.Name = name
		table.Capacity = input.Capacity
		table.Shape = shape
		table.PositionX = input.PositionX
		table.PositionY = input.PositionY
		table.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateTable(ctx, table); err != nil {
			return err
		}
		updated = *table

		if table.Capacity == old.Capacity {
			return nil
		}
		seats, err := tx.ListSeats(ctx, table.WeddingID, table.ID)
		if err != nil {
			return err
		}
		added, removed, err = resize(*table, seats)
		if err != nil {
			return err
		}
		for _, seat := range removed {
			if _, err := tx.DeleteSeat(ctx, seat.WeddingID, seat.ID); err != nil {
				return err
			}
		}
		if len(added) > 0 {
			return tx.CreateSeats(ctx, added)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Updated(ctx, TablesTable, updated.WeddingID, updated, old)
	for _, seat := range removed {
		s.events.Deleted(ctx, SeatsTable, seat.WeddingID, seat)
	}
	for _, seat := range added {
		s.events.Inserted(ctx, SeatsTable, seat.WeddingID, seat)
	}
	return &updated, nil
}

// MoveTable is the drag-and-drop update from the floor plan.
func (s *Service) MoveTable(ctx context.Context, input MoveTableInput) (*Table, error) {
	table, err := s.repo.GetTable(ctx, input.WeddingID, input.ID)
	if err != nil {
		return nil, err
	}
	old := *table

	table.PositionX = input.PositionX
	table.PositionY = input.PositionY
	table.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateTable(ctx, table); err != nil {
		return nil, err
	}

	s.events.Updated(ctx, TablesTable, table.WeddingID, table, old)
	return table, nil
}

func (s *Service) DeleteTable(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeleteTable(ctx, weddingID, id)
	if err != nil {
		return err
	}
	// seats go with the table through the cascade
	s.events.Deleted(ctx, TablesTable, weddingID, deleted)
	return nil
}

func (s *Service) ListSeats(ctx context.Context, weddingID, tableID string) ([]Seat, error) {
	if _, err := s.repo.GetTable(ctx, weddingID, tableID); err != nil {
		return nil, err
	}
	seats, err := s.repo.ListSeats(ctx, weddingID, tableID)
	if err != nil {
		return nil, err
	}
	if seats == nil {
		seats = []Seat{}
	}
	return seats, nil
}

// AddSeat restores a seat removed earlier, using the lowest free number.
func (s *Service) AddSeat(ctx context.Context, weddingID, tableID string) (*Seat, error) {
	var seat Seat
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		table, err := tx.GetTable(ctx, weddingID, tableID)
		if err != nil {
			return err
		}
		seats, err := tx.ListSeats(ctx, weddingID, tableID)
		if err != nil {
			return err
		}
		if len(seats) >= table.Capacity {
			return ErrTableFull
		}

		used := make(map[int]bool, len(seats))
		for _, existing := range seats {
			used[existing.Number] = true
		}
		number := 1
		for used[number] {
			number++
		}
		seat = newSeats(*table, number, number)[0]
		return tx.CreateSeats(ctx, []Seat{seat})
	})
	if err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, SeatsTable, seat.WeddingID, seat)
	return &seat, nil
}

func (s *Service) DeleteSeat(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeleteSeat(ctx, weddingID, id)
	if err != nil {
		return err
	}
	s.events.Deleted(ctx, SeatsTable, weddingID, deleted)
	return nil
}

// AssignGuest seats a guest in one transaction: the target seat is locked,
// rejected when someone else sits there, the guest's previous seat is
// cleared, then the guest is placed.
func (s *Service) AssignGuest(ctx context.Context, input AssignInput) (*Seat, error) {
	var (
		assigned Seat
		before   Seat
		vacated  *Seat
		vacatedB Seat
		noop     bool
	)

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		seat, err := tx.GetSeatForUpdate(ctx, input.WeddingID, input.SeatID)
		if err != nil {
			return err
		}
		if seat.GuestID != nil {
			if *seat.GuestID == input.GuestID {
				assigned = *seat
				noop = true
				return nil
			}
			return ErrSeatOccupied
		}
		before = *seat

		name, err := tx.GetGuestName(ctx, input.WeddingID, input.GuestID)
		if err != nil {
			return err
		}

		previous, err := tx.FindSeatByGuest(ctx, input.WeddingID, input.GuestID)
		switch {
		case err == nil:
			vacatedB = *previous
			if err := tx.SetSeatGuest(ctx, previous.ID, nil); err != nil {
				return err
			}
			previous.GuestID = nil
			previous.GuestName = ""
			vacated = previous
		case !errors.Is(err, ErrSeatNotFound):
			return err
		}

		guestID := input.GuestID
		if err := tx.SetSeatGuest(ctx, seat.ID, &guestID); err != nil {
			return err
		}
		seat.GuestID = &guestID
		seat.GuestName = name
		assigned = *seat
		return nil
	})
	if err != nil {
		return nil, err
	}
	if noop {
		return &assigned, nil
	}

	if vacated != nil {
		s.events.Updated(ctx, SeatsTable, vacated.WeddingID, *vacated, vacatedB)
	}
	s.events.Updated(ctx, SeatsTable, assigned.WeddingID, assigned, before)
	return &assigned, nil
}

func (s *Service) UnassignSeat(ctx context.Context, weddingID, seatID string) (*Seat, error) {
	var (
		cleared Seat
		before  Seat
		noop    bool
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		seat, err := tx.GetSeatForUpdate(ctx, weddingID, seatID)
		if err != nil {
			return err
		}
		before = *seat
		if seat.GuestID == nil {
			cleared = *seat
			noop = true
			return nil
		}
		if err := tx.SetSeatGuest(ctx, seat.ID, nil); err != nil {
			return err
		}
		seat.GuestID = nil
		seat.GuestName = ""
		cleared = *seat
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !noop {
		s.events.Updated(ctx, SeatsTable, cleared.WeddingID, cleared, before)
	}
	return &cleared, nil
}

func validateTable(name string, capacity int, shape Shape) (string, Shape, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ErrNameRequired
	}
	if capacity <= 0 || capacity > MaxCapacity {
		return "", "", ErrInvalidCapacity
	}
	if shape == "" {
		shape = ShapeRound
	}
	if !shape.Valid() {
		return "", "", ErrInvalidShape
	}
	return name, shape, nil
}

func newSeats(table Table, from, to int) []Seat {
	seats := make([]Seat, 0, to-from+1)
	for number := from; number <= to; number++ {
		seats = append(seats, Seat{
			ID:        uuid.NewString(),
			WeddingID: table.WeddingID,
			TableID:   table.ID,
			Number:    number,
		})
	}
	return seats
}

// resize compares the existing seats with the table capacity.
func resize(table Table, seats []Seat) (added, removed []Seat, err error) {
	highest := 0
	for _, seat := range seats {
		if seat.Number > table.Capacity {
			if seat.GuestID != nil {
				return nil, nil, ErrCapacityBelowUsage
			}
			removed = append(removed, seat)
		}
		if seat.Number > highest {
			highest = seat.Number
		}
	}
	if highest < table.Capacity {
		added = newSeats(table, highest+1, table.Capacity)
	}
	return added, removed, nil
}
