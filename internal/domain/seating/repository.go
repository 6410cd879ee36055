package seating

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListTables(ctx context.Context, weddingID string) ([]Table, error)
	GetTable(ctx context.Context, weddingID, id string) (*Table, error)
	CreateTable(ctx context.Context, table *Table) error
	UpdateTable(ctx context.Context, table *Table) error
	DeleteTable(ctx context.Context, weddingID, id string) (*Table, error)

	ListSeats(ctx context.Context, weddingID, tableID string) ([]Seat, error)
	// GetSeatForUpdate locks the seat row until the transaction ends.
	GetSeatForUpdate(ctx context.Context, weddingID, id string) (*Seat, error)
	FindSeatByGuest(ctx context.Context, weddingID, guestID string) (*Seat, error)
	CreateSeats(ctx context.Context, seats []Seat) error
	DeleteSeat(ctx context.Context, weddingID, id string) (*Seat, error)
	SetSeatGuest(ctx context.Context, seatID string, guestID *string) error
	GetGuestName(ctx context.Context, weddingID, guestID string) (string, error)
}
