package vendors

import (
	"context"
	"io"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListVendors(ctx context.Context, weddingID, category string) ([]Vendor, error)
	GetVendor(ctx context.Context, weddingID, id string) (*Vendor, error)
	CreateVendor(ctx context.Context, vendor *Vendor) error
	UpdateVendor(ctx context.Context, vendor *Vendor) error
	DeleteVendor(ctx context.Context, weddingID, id string) (*Vendor, error)

	ListAppointments(ctx context.Context, weddingID, vendorID string) ([]Appointment, error)
	GetAppointment(ctx context.Context, weddingID, id string) (*Appointment, error)
	CreateAppointment(ctx context.Context, appointment *Appointment) error
	UpdateAppointment(ctx context.Context, appointment *Appointment) error
	DeleteAppointment(ctx context.Context, weddingID, id string) (*Appointment, error)

	ListContracts(ctx context.Context, weddingID, vendorID string) ([]Contract, error)
	GetContract(ctx context.Context, weddingID, id string) (*Contract, error)
	CreateContract(ctx context.Context, contract *Contract) error
	UpdateContract(ctx context.Context, contract *Contract) error
	DeleteContract(ctx context.Context, weddingID, id string) (*Contract, error)

	ListPayments(ctx context.Context, weddingID, vendorID string) ([]Payment, error)
	GetPayment(ctx context.Context, weddingID, id string) (*Payment, error)
	CreatePayment(ctx context.Context, payment *Payment) error
	UpdatePayment(ctx context.Context, payment *Payment) error
	DeletePayment(ctx context.Context, weddingID, id string) (*Payment, error)

	ListReviews(ctx context.Context, weddingID, vendorID string) ([]Review, error)
	GetReview(ctx context.Context, weddingID, id string) (*Review, error)
	// GetReviewForUpdate locks the review row until the transaction ends.
	GetReviewForUpdate(ctx context.Context, weddingID, id string) (*Review, error)
	CreateReview(ctx context.Context, review *Review) error
	UpdateReview(ctx context.Context, review *Review) error
	DeleteReview(ctx context.Context, weddingID, id string) (*Review, error)

	UpsertVote(ctx context.Context, vote *ReviewVote) error
	DeleteVote(ctx context.Context, reviewID, userID string) error
	CountVotes(ctx context.Context, reviewID string) (helpful, unhelpful int, err error)
	SetReviewCounts(ctx context.Context, reviewID string, helpful, unhelpful int) error
}

type Storage interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

type Notifier interface {
	RemindPayment(ctx context.Context, reminder Reminder) error
}
