package seating

import "time"

const (
	TablesTable = "seating_tables"
	SeatsTable  = "seats"
)

type Shape string

const (
	ShapeRound     Shape = "round"
	ShapeRectangle Shape = "rectangle"
	ShapeSquare    Shape = "square"
)

func (s Shape) Valid() bool {
	switch s {
	case ShapeRound, ShapeRectangle, ShapeSquare:
		return true
	}
	return false
}

type Table struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID string    `gorm:"type:uuid;index;not null" json:"wedding_id"`
	Name      string    `gorm:"not null" json:"name"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Shape     Shape     `gorm:"not null" json:"shape"`
	PositionX float64   `gorm:"column:position_x;not null" json:"position_x"`
	PositionY float64   `gorm:"column:position_y;not null" json:"position_y"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Table) TableName() string {
	return TablesTable
}

// OnlyMoved reports whether next differs from t in position alone.
func (t Table) OnlyMoved(next Table) bool {
	if t.PositionX == next.PositionX && t.PositionY == next.PositionY {
		return false
	}
	return t.Name == next.Name && t.Capacity == next.Capacity && t.Shape == next.Shape
}

type Seat struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID string    `gorm:"type:uuid;index;not null" json:"wedding_id"`
	TableID   string    `gorm:"type:uuid;index;not null" json:"table_id"`
	Number    int       `gorm:"not null" json:"number"`
	GuestID   *string   `gorm:"type:uuid" json:"guest_id"`
	GuestName string    `gorm:"->;-:migration" json:"guest_name,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Seat) TableName() string {
	return SeatsTable
}

type CreateTableInput struct {
	WeddingID string
	Name      string
	Capacity  int
	Shape     Shape
	PositionX float64
	PositionY float64
}

type UpdateTableInput struct {
	ID        string
	WeddingID string
	Name      string
	Capacity  int
	Shape     Shape
	PositionX float64
	PositionY float64
}

type MoveTableInput struct {
	ID        string
	WeddingID string
	PositionX float64
	PositionY float64
}

type AssignInput struct {
	WeddingID string
	SeatID    string
	GuestID   string
}

// TableWithSeats is the table detail view.
type TableWithSeats struct {
	Table
	Seats []Seat `json:"seats"`
}
