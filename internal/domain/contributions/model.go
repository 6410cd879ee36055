package contributions

import (
	"io"
	"time"
)

const (
	PhotosTable   = "photos"
	CommentsTable = "photo_comments"
	SongsTable    = "song_requests"
)

type SongStatus string

const (
	SongRequested SongStatus = "requested"
	SongApproved  SongStatus = "approved"
	SongRejected  SongStatus = "rejected"
)

func (s SongStatus) Valid() bool {
	switch s {
	case SongRequested, SongApproved, SongRejected:
		return true
	}
	return false
}

type Photo struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID   string    `gorm:"type:uuid;index;not null" json:"wedding_id"`
	GuestID     *string   `gorm:"type:uuid" json:"guest_id"`
	StoragePath string    `gorm:"not null" json:"storage_path"`
	URL         string    `gorm:"column:url;not null" json:"url"`
	Caption     string    `gorm:"not null" json:"caption"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Photo) TableName() string {
	return PhotosTable
}

// Comment carries the author's name for display. The name is joined on read
// and never stored.
type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID string    `gorm:"type:uuid;index;not null" json:"wedding_id"`
	PhotoID   string    `gorm:"type:uuid;index;not null" json:"photo_id"`
	GuestID   *string   `gorm:"type:uuid" json:"guest_id"`
	Body      string    `gorm:"not null" json:"body"`
	GuestName string    `gorm:"->;-:migration" json:"guest_name,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string {
	return CommentsTable
}

type SongRequest struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID string     `gorm:"type:uuid;index;not null" json:"wedding_id"`
	GuestID   *string    `gorm:"type:uuid" json:"guest_id"`
	Title     string     `gorm:"not null" json:"title"`
	Artist    string     `gorm:"not null" json:"artist"`
	Status    SongStatus `gorm:"not null" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SongRequest) TableName() string {
	return SongsTable
}

// GuestRef identifies the guest behind an rsvp token.
type GuestRef struct {
	ID        string
	WeddingID string
	Name      string
}

type PhotoInput struct {
	WeddingID   string
	GuestID     *string
	FileName    string
	ContentType string
	Body        io.Reader
	Caption     string
}

type CommentInput struct {
	WeddingID string
	PhotoID   string
	GuestID   *string
	Body      string
}

type SongInput struct {
	WeddingID string
	GuestID   *string
	Title     string
	Artist    string
}
