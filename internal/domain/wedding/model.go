package wedding

import "time"

const Table = "weddings"

type Wedding struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   string     `gorm:"not null;uniqueIndex" json:"owner_id"`
	Title     string     `gorm:"not null" json:"title"`
	Date      *time.Time `gorm:"type:date" json:"date,omitempty"`
	Venue     string     `gorm:"not null;default:''" json:"venue"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Wedding) TableName() string {
	return Table
}

type CreateInput struct {
	OwnerID string
	Title   string
	Date    *time.Time
	Venue   string
}

type UpdateInput struct {
	OwnerID string
	Title   string
	Date    *time.Time
	Venue   string
}
