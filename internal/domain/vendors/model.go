package vendors

import (
	"io"
	"time"
)

const (
	VendorsTable      = "vendors"
	AppointmentsTable = "vendor_appointments"
	ContractsTable    = "vendor_contracts"
	PaymentsTable     = "vendor_payments"
	ReviewsTable      = "vendor_reviews"
	VotesTable        = "vendor_review_votes"
)

type PaymentStatus string

const (
	PaymentPaid      PaymentStatus = "paid"
	PaymentPending   PaymentStatus = "pending"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentCancelled:
		return true
	}
	return false
}

type Vendor struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID string    `gorm:"type:uuid;index;not null" json:"wedding_id"`
	Name      string    `gorm:"not null" json:"name"`
	Category  string    `gorm:"not null" json:"category"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     string    `gorm:"not null" json:"phone"`
	Website   string    `gorm:"not null" json:"website"`
	Notes     string    `gorm:"not null" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Vendor) TableName() string {
	return VendorsTable
}

type Appointment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID string    `gorm:"type:uuid;index;not null" json:"wedding_id"`
	VendorID  string    `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Title     string    `gorm:"not null" json:"title"`
	StartsAt  time.Time `gorm:"not null" json:"starts_at"`
	Location  string    `gorm:"not null" json:"location"`
	Notes     string    `gorm:"not null" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return AppointmentsTable
}

type Contract struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID string     `gorm:"type:uuid;index;not null" json:"wedding_id"`
	VendorID  string     `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Title     string     `gorm:"not null" json:"title"`
	FilePath  string     `gorm:"not null" json:"file_path"`
	FileURL   string     `gorm:"column:file_url;not null" json:"file_url"`
	Amount    float64    `gorm:"type:numeric(12,2);not null" json:"amount"`
	SignedAt  *time.Time `json:"signed_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Contract) TableName() string {
	return ContractsTable
}

type Payment struct {
	ID        string        `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID string        `gorm:"type:uuid;index;not null" json:"wedding_id"`
	VendorID  string        `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Amount    float64       `gorm:"type:numeric(12,2);not null" json:"amount"`
	DueDate   *time.Time    `gorm:"type:date" json:"due_date"`
	PaidAt    *time.Time    `json:"paid_at"`
	Status    PaymentStatus `gorm:"not null" json:"status"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return PaymentsTable
}

type Review struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID      string    `gorm:"type:uuid;index;not null" json:"wedding_id"`
	VendorID       string    `gorm:"type:uuid;index;not null" json:"vendor_id"`
	UserID         string    `gorm:"not null" json:"user_id"`
	Rating         int       `gorm:"not null" json:"rating"`
	Body           string    `gorm:"not null" json:"body"`
	HelpfulCount   int       `gorm:"not null" json:"helpful_count"`
	UnhelpfulCount int       `gorm:"not null" json:"unhelpful_count"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Review) TableName() string {
	return ReviewsTable
}

type ReviewVote struct {
	ReviewID  string    `gorm:"type:uuid;primaryKey" json:"review_id"`
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	IsHelpful bool      `gorm:"not null" json:"is_helpful"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ReviewVote) TableName() string {
	return VotesTable
}

type VendorInput struct {
	ID        string
	WeddingID string
	Name      string
	Category  string
	Email     string
	Phone     string
	Website   string
	Notes     string
}

type AppointmentInput struct {
	ID        string
	WeddingID string
	VendorID  string
	Title     string
	StartsAt  time.Time
	Location  string
	Notes     string
}

type ContractInput struct {
	ID        string
	WeddingID string
	VendorID  string
	Title     string
	Amount    float64
	SignedAt  *time.Time
}

type UploadInput struct {
	WeddingID   string
	ContractID  string
	FileName    string
	ContentType string
	Body        io.Reader
}

type PaymentInput struct {
	ID        string
	WeddingID string
	VendorID  string
	Amount    float64
	DueDate   *time.Time
	Status    PaymentStatus
}

type ReviewInput struct {
	ID        string
	WeddingID string
	VendorID  string
	UserID    string
	Rating    int
	Body      string
}

type VoteInput struct {
	WeddingID string
	ReviewID  string
	UserID    string
	IsHelpful bool
}

// Reminder is what the notification channel needs to chase a payment.
type Reminder struct {
	To         string
	VendorName string
	Amount     float64
	DueDate    *time.Time
}
