package seating

import "errors"

var (
	ErrTableNotFound      = errors.New("table not found")
	ErrSeatNotFound       = errors.New("seat not found")
	ErrGuestNotFound      = errors.New("guest not found")
	ErrSeatOccupied       = errors.New("seat is occupied by another guest")
	ErrGuestAlreadySeated = errors.New("guest was seated concurrently")
	ErrTableFull          = errors.New("table is full")
	ErrSeatNumberTaken    = errors.New("seat number already used at this table")
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidCapacity    = errors.New("capacity must be positive")
	ErrInvalidShape       = errors.New("invalid table shape")
	ErrCapacityBelowUsage = errors.New("capacity would drop occupied seats")
)
