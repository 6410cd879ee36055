package vendors

import (
	"context"
	"math"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"wedding-app-go/internal/realtime"
	"wedding-app-go/pkg/logger"
)

type Service struct {
	repo     Repository
	events   *realtime.Broadcaster
	storage  Storage
	notifier Notifier
	log      logger.Logger
}

// NewService accepts a nil storage or notifier; the operations that need
// them then fail with ErrStorageDisabled or ErrNotifierDisabled.
func NewService(repo Repository, events *realtime.Broadcaster, storage Storage, notifier Notifier, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		events:   events,
		storage:  storage,
		notifier: notifier,
		log:      log.Component("vendors"),
	}
}

func (s *Service) ListVendors(ctx context.Context, weddingID, category string) ([]Vendor, error) {
	vendors, err := s.repo.ListVendors(ctx, weddingID, strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	if vendors == nil {
		vendors = []Vendor{}
	}
	return vendors, nil
}

func (s *Service) GetVendor(ctx context.Context, weddingID, id string) (*Vendor, error) {
	return s.repo.GetVendor(ctx, weddingID, id)
}

func (s *Service) CreateVendor(ctx context.Context, input VendorInput) (*Vendor, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	vendor := Vendor{ID: uuid.NewString(), WeddingID: input.WeddingID}
	applyVendor(&vendor, name, input)
	if err := s.repo.CreateVendor(ctx, &vendor); err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, VendorsTable, vendor.WeddingID, vendor)
	return &vendor, nil
}

func (s *Service) UpdateVendor(ctx context.Context, input VendorInput) (*Vendor, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	vendor, err := s.repo.GetVendor(ctx, input.WeddingID, input.ID)
	if err != nil {
		return nil, err
	}
	old := *vendor

	applyVendor(vendor, name, input)
	vendor.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateVendor(ctx, vendor); err != nil {
		return nil, err
	}

	s.events.Updated(ctx, VendorsTable, vendor.WeddingID, vendor, old)
	return vendor, nil
}

// DeleteVendor removes the vendor with everything scoped to it. Stored
// contract files are removed on a best-effort basis.
func (s *Service) DeleteVendor(ctx context.Context, weddingID, id string) error {
	contracts, err := s.repo.ListContracts(ctx, weddingID, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeleteVendor(ctx, weddingID, id)
	if err != nil {
		return err
	}

	for _, contract := range contracts {
		s.removeFile(ctx, contract.FilePath)
	}
	s.events.Deleted(ctx, VendorsTable, weddingID, deleted)
	return nil
}

func applyVendor(vendor *Vendor, name string, input VendorInput) {
	vendor.Name = name
	vendor.Category = strings.TrimSpace(input.Category)
	vendor.Email = strings.ToLower(strings.TrimSpace(input.Email))
	vendor.Phone = strings.TrimSpace(input.Phone)
	vendor.Website = strings.TrimSpace(input.Website)
	vendor.Notes = strings.TrimSpace(input.Notes)
}

func (s *Service) ListAppointments(ctx context.Context, weddingID, vendorID string) ([]Appointment, error) {
	if _, err := s.repo.GetVendor(ctx, weddingID, vendorID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListAppointments(ctx, weddingID, vendorID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Appointment{}
	}
	return items, nil
}

func (s *Service) CreateAppointment(ctx context.Context, input AppointmentInput) (*Appointment, error) {
	title, err := validateAppointment(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetVendor(ctx, input.WeddingID, input.VendorID); err != nil {
		return nil, err
	}

	appointment := Appointment{
		ID:        uuid.NewString(),
		WeddingID: input.WeddingID,
		VendorID:  input.VendorID,
		Title:     title,
		StartsAt:  input.StartsAt.UTC(),
		Location:  strings.TrimSpace(input.Location),
		Notes:     strings.TrimSpace(input.Notes),
	}
	if err := s.repo.CreateAppointment(ctx, &appointment); err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, AppointmentsTable, appointment.WeddingID, appointment)
	return &appointment, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, input AppointmentInput) (*Appointment, error) {
	title, err := validateAppointment(input)
	if err != nil {
		return nil, err
	}

	appointment, err := s.repo.GetAppointment(ctx, input.WeddingID, input.ID)
	if err != nil {
		return nil, err
	}
	old := *appointment

	appointment.Title = title
	appointment.StartsAt = input.StartsAt.UTC()
	appointment.Location = strings.TrimSpace(input.Location)
	appointment.Notes = strings.TrimSpace(input.Notes)
	appointment.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	s.events.Updated(ctx, AppointmentsTable, appointment.WeddingID, appointment, old)
	return appointment, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeleteAppointment(ctx, weddingID, id)
	if err != nil {
		return err
	}
	s.events.Deleted(ctx, AppointmentsTable, weddingID, deleted)
	return nil
}

func validateAppointment(input AppointmentInput) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if input.StartsAt.IsZero() {
		return "", ErrStartRequired
	}
	return title, nil
}

func (s *Service) ListContracts(ctx context.Context, weddingID, vendorID string) ([]Contract, error) {
	if _, err := s.repo.GetVendor(ctx, weddingID, vendorID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListContracts(ctx, weddingID, vendorID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Contract{}
	}
	return items, nil
}

func (s *Service) CreateContract(ctx context.Context, input ContractInput) (*Contract, error) {
	title, err := validateContract(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetVendor(ctx, input.WeddingID, input.VendorID); err != nil {
		return nil, err
	}

	contract := Contract{
		ID:        uuid.NewString(),
		WeddingID: input.WeddingID,
		VendorID:  input.VendorID,
		Title:     title,
		Amount:    roundMoney(input.Amount),
		SignedAt:  input.SignedAt,
	}
	if err := s.repo.CreateContract(ctx, &contract); err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, ContractsTable, contract.WeddingID, contract)
	return &contract, nil
}

func (s *Service) UpdateContract(ctx context.Context, input ContractInput) (*Contract, error) {
	title, err := validateContract(input)
	if err != nil {
		return nil, err
	}

	contract, err := s.repo.GetContract(ctx, input.WeddingID, input.ID)
	if err != nil {
		return nil, err
	}
	old := *contract

	contract.Title = title
	contract.Amount = roundMoney(input.Amount)
	contract.SignedAt = input.SignedAt
	if err := s.repo.UpdateContract(ctx, contract); err != nil {
		return nil, err
	}

	s.events.Updated(ctx, ContractsTable, contract.WeddingID, contract, old)
	return contract, nil
}

// UploadContractFile stores the document and points the contract at it. A
// previously stored document under another path is removed afterwards.
func (s *Service) UploadContractFile(ctx context.Context, input UploadInput) (*Contract, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	if input.Body == nil || strings.TrimSpace(input.FileName) == "" {
		return nil, ErrFileRequired
	}

	contract, err := s.repo.GetContract(ctx, input.WeddingID, input.ContractID)
	if err != nil {
		return nil, err
	}
	old := *contract

	filePath := ContractPath(contract.WeddingID, contract.ID, input.FileName)
	url, err := s.storage.Upload(ctx, filePath, input.ContentType, input.Body)
	if err != nil {
		return nil, err
	}

	contract.FilePath = filePath
	contract.FileURL = url
	if err := s.repo.UpdateContract(ctx, contract); err != nil {
		s.removeFile(ctx, filePath)
		return nil, err
	}
	if old.FilePath != "" && old.FilePath != filePath {
		s.removeFile(ctx, old.FilePath)
	}

	s.events.Updated(ctx, ContractsTable, contract.WeddingID, contract, old)
	return contract, nil
}

func (s *Service) DeleteContract(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeleteContract(ctx, weddingID, id)
	if err != nil {
		return err
	}
	s.removeFile(ctx, deleted.FilePath)
	s.events.Deleted(ctx, ContractsTable, weddingID, deleted)
	return nil
}

// ContractPath is the storage object path of a contract document.
func ContractPath(weddingID, contractID, fileName string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == "/" || name == "" {
		name = "contract"
	}
	return path.Join(weddingID, "contracts", contractID, name)
}

func (s *Service) removeFile(ctx context.Context, filePath string) {
	if filePath == "" || s.storage == nil {
		return
	}
	if err := s.storage.Remove(ctx, filePath); err != nil {
		s.log.InternalError("vendors.contract: remove file failed", err, "path", filePath)
	}
}

func validateContract(input ContractInput) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if !validAmount(input.Amount) {
		return "", ErrInvalidAmount
	}
	return title, nil
}

func (s *Service) ListPayments(ctx context.Context, weddingID, vendorID string) ([]Payment, error) {
	if _, err := s.repo.GetVendor(ctx, weddingID, vendorID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListPayments(ctx, weddingID, vendorID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Payment{}
	}
	return items, nil
}

func (s *Service) CreatePayment(ctx context.Context, input PaymentInput) (*Payment, error) {
	status, err := validatePayment(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetVendor(ctx, input.WeddingID, input.VendorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payment := Payment{
		ID:        uuid.NewString(),
		WeddingID: input.WeddingID,
		VendorID:  input.VendorID,
		Amount:    roundMoney(input.Amount),
		DueDate:   input.DueDate,
		Status:    status,
	}
	if status == PaymentPaid {
		payment.PaidAt = &now
	}
	if err := s.repo.CreatePayment(ctx, &payment); err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, PaymentsTable, payment.WeddingID, payment)
	return &payment, nil
}

func (s *Service) UpdatePayment(ctx context.Context, input PaymentInput) (*Payment, error) {
	status, err := validatePayment(input)
	if err != nil {
		return nil, err
	}

	payment, err := s.repo.GetPayment(ctx, input.WeddingID, input.ID)
	if err != nil {
		return nil, err
	}
	old := *payment

	now := time.Now().UTC()
	if status != payment.Status {
		if status == PaymentPaid {
			payment.PaidAt = &now
		} else {
			payment.PaidAt = nil
		}
	}
	payment.Amount = roundMoney(input.Amount)
	payment.DueDate = input.DueDate
	payment.Status = status
	payment.UpdatedAt = now
	if err := s.repo.UpdatePayment(ctx, payment); err != nil {
		return nil, err
	}

	s.events.Updated(ctx, PaymentsTable, payment.WeddingID, payment, old)
	return payment, nil
}

func (s *Service) DeletePayment(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeletePayment(ctx, weddingID, id)
	if err != nil {
		return err
	}
	s.events.Deleted(ctx, PaymentsTable, weddingID, deleted)
	return nil
}

// RemindPayment sends a payment reminder for a pending payment to the given
// address. Nothing is persisted.
func (s *Service) RemindPayment(ctx context.Context, weddingID, paymentID, to string) error {
	if s.notifier == nil {
		return ErrNotifierDisabled
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrRecipientRequired
	}

	payment, err := s.repo.GetPayment(ctx, weddingID, paymentID)
	if err != nil {
		return err
	}
	if payment.Status != PaymentPending {
		return ErrPaymentNotPending
	}
	vendor, err := s.repo.GetVendor(ctx, weddingID, payment.VendorID)
	if err != nil {
		return err
	}

	return s.notifier.RemindPayment(ctx, Reminder{
		To:         to,
		VendorName: vendor.Name,
		Amount:     payment.Amount,
		DueDate:    payment.DueDate,
	})
}

func validatePayment(input PaymentInput) (PaymentStatus, error) {
	if !validAmount(input.Amount) {
		return "", ErrInvalidAmount
	}
	status := input.Status
	if status == "" {
		status = PaymentPending
	}
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s *Service) ListReviews(ctx context.Context, weddingID, vendorID string) ([]Review, error) {
	if _, err := s.repo.GetVendor(ctx, weddingID, vendorID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListReviews(ctx, weddingID, vendorID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Review{}
	}
	return items, nil
}

func (s *Service) CreateReview(ctx context.Context, input ReviewInput) (*Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.repo.GetVendor(ctx, input.WeddingID, input.VendorID); err != nil {
		return nil, err
	}

	review := Review{
		ID:        uuid.NewString(),
		WeddingID: input.WeddingID,
		VendorID:  input.VendorID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Body:      strings.TrimSpace(input.Body),
	}
	if err := s.repo.CreateReview(ctx, &review); err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, ReviewsTable, review.WeddingID, review)
	return &review, nil
}

func (s *Service) UpdateReview(ctx context.Context, input ReviewInput) (*Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.repo.GetReview(ctx, input.WeddingID, input.ID)
	if err != nil {
		return nil, err
	}
	old := *review

	review.Rating = input.Rating
	review.Body = strings.TrimSpace(input.Body)
	review.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateReview(ctx, review); err != nil {
		return nil, err
	}

	s.events.Updated(ctx, ReviewsTable, review.WeddingID, review, old)
	return review, nil
}

func (s *Service) DeleteReview(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeleteReview(ctx, weddingID, id)
	if err != nil {
		return err
	}
	s.events.Deleted(ctx, ReviewsTable, weddingID, deleted)
	return nil
}

// Vote records one user's helpful/unhelpful vote on a review. The vote and
// the review's counters change in the same transaction, so the counters
// always equal the stored votes.
func (s *Service) Vote(ctx context.Context, input VoteInput) (*Review, error) {
	return s.recount(ctx, input.WeddingID, input.ReviewID, input.UserID, func(tx Repository) error {
		return tx.UpsertVote(ctx, &ReviewVote{
			ReviewID:  input.ReviewID,
			UserID:    input.UserID,
			IsHelpful: input.IsHelpful,
		})
	})
}

func (s *Service) ClearVote(ctx context.Context, weddingID, reviewID, userID string) (*Review, error) {
	return s.recount(ctx, weddingID, reviewID, userID, func(tx Repository) error {
		return tx.DeleteVote(ctx, reviewID, userID)
	})
}

func (s *Service) recount(ctx context.Context, weddingID, reviewID, userID string, change func(Repository) error) (*Review, error) {
	var (
		updated Review
		old     Review
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		review, err := tx.GetReviewForUpdate(ctx, weddingID, reviewID)
		if err != nil {
			return err
		}
		if review.UserID == userID {
			return ErrOwnReview
		}
		old = *review

		if err := change(tx); err != nil {
			return err
		}
		helpful, unhelpful, err := tx.CountVotes(ctx, reviewID)
		if err != nil {
			return err
		}
		if err := tx.SetReviewCounts(ctx, reviewID, helpful, unhelpful); err != nil {
			return err
		}

		review.HelpfulCount = helpful
		review.UnhelpfulCount = unhelpful
		updated = *review
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.HelpfulCount != old.HelpfulCount || updated.UnhelpfulCount != old.UnhelpfulCount {
		s.events.Updated(ctx, ReviewsTable, updated.WeddingID, updated, old)
	}
	return &updated, nil
}

func validAmount(amount float64) bool {
	return amount >= 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

func roundMoney(value float64) float64 {
	return math.Round(value*100) / 100
}
