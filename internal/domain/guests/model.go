package guests

import "time"

const Table = "guests"

type RSVPStatus string

const (
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPPending   RSVPStatus = "pending"
	RSVPDeclined  RSVPStatus = "declined"
)

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPConfirmed, RSVPPending, RSVPDeclined:
		return true
	}
	return false
}

type Guest struct {
	ID                  string     `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID           string     `gorm:"type:uuid;index;not null" json:"wedding_id"`
	Name                string     `gorm:"not null" json:"name"`
	Email               string     `gorm:"not null;default:''" json:"email"`
	Phone               string     `gorm:"not null;default:''" json:"phone"`
	RSVPStatus          RSVPStatus `gorm:"column:rsvp_status;not null" json:"rsvp_status"`
	PlusOne             bool       `gorm:"not null" json:"plus_one"`
	DietaryRestrictions string     `gorm:"not null;default:''" json:"dietary_restrictions"`
	Category            string     `gorm:"not null;default:''" json:"category"`
	RSVPToken           string     `gorm:"column:rsvp_token;not null;uniqueIndex" json:"rsvp_token"`
	RespondedAt         *time.Time `json:"responded_at,omitempty"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Guest) TableName() string {
	return Table
}

type ListFilter struct {
	Status   RSVPStatus
	Category string
}

type CreateInput struct {
	WeddingID           string
	Name                string
	Email               string
	Phone               string
	PlusOne             bool
	DietaryRestrictions string
	Category            string
}

type UpdateInput struct {
	ID                  string
	WeddingID           string
	Name                string
	Email               string
	Phone               string
	RSVPStatus          RSVPStatus
	PlusOne             bool
	DietaryRestrictions string
	Category            string
}

type RespondInput struct {
	Token               string
	Status              RSVPStatus
	PlusOne             *bool
	DietaryRestrictions *string
}

type InviteInput struct {
	WeddingID    string
	WeddingTitle string
	WeddingDate  *time.Time
	GuestID      string
}

// Invitation is what outbound channels need to reach one guest.
type Invitation struct {
	GuestName    string
	Email        string
	Phone        string
	WeddingTitle string
	WeddingDate  *time.Time
	RSVPURL      string
	Status       RSVPStatus
}

type Summary struct {
	Total             int64 `json:"total"`
	Confirmed         int64 `json:"confirmed"`
	Pending           int64 `json:"pending"`
	Declined          int64 `json:"declined"`
	PlusOnes          int64 `json:"plus_ones"`
	ExpectedAttendees int64 `json:"expected_attendees"`
}

type StatusCount struct {
	Status   RSVPStatus
	Count    int64
	PlusOnes int64
}
