package vendors

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"wedding-app-go/internal/realtime"
)

type fakeRepo struct {
	vendors      map[string]*Vendor
	appointments map[string]*Appointment
	contracts    map[string]*Contract
	payments     map[string]*Payment
	reviews      map[string]*Review
	votes        map[string]ReviewVote
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		vendors:      make(map[string]*Vendor),
		appointments: make(map[string]*Appointment),
		contracts:    make(map[string]*Contract),
		payments:     make(map[string]*Payment),
		reviews:      make(map[string]*Review),
		votes:        make(map[string]ReviewVote),
	}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) ListVendors(ctx context.Context, weddingID, category string) ([]Vendor, error) {
	result := make([]Vendor, 0)
	for _, vendor := range r.vendors {
		if vendor.WeddingID == weddingID && (category == "" || vendor.Category == category) {
			result = append(result, *vendor)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetVendor(ctx context.Context, weddingID, id string) (*Vendor, error) {
	vendor, ok := r.vendors[id]
	if !ok || vendor.WeddingID != weddingID {
		return nil, ErrVendorNotFound
	}
	item := *vendor
	return &item, nil
}

func (r *fakeRepo) CreateVendor(ctx context.Context, vendor *Vendor) error {
	item := *vendor
	r.vendors[vendor.ID] = &item
	return nil
}

func (r *fakeRepo) UpdateVendor(ctx context.Context, vendor *Vendor) error {
	item := *vendor
	r.vendors[vendor.ID] = &item
	return nil
}

func (r *fakeRepo) DeleteVendor(ctx context.Context, weddingID, id string) (*Vendor, error) {
	vendor, ok := r.vendors[id]
	if !ok || vendor.WeddingID != weddingID {
		return nil, ErrVendorNotFound
	}
	delete(r.vendors, id)
	for contractID, contract := range r.contracts {
		if contract.VendorID == id {
			delete(r.contracts, contractID)
		}
	}
	return vendor, nil
}

func (r *fakeRepo) ListAppointments(ctx context.Context, weddingID, vendorID string) ([]Appointment, error) {
	result := make([]Appointment, 0)
	for _, item := range r.appointments {
		if item.WeddingID == weddingID && item.VendorID == vendorID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetAppointment(ctx context.Context, weddingID, id string) (*Appointment, error) {
	item, ok := r.appointments[id]
	if !ok || item.WeddingID != weddingID {
		return nil, ErrAppointmentNotFound
	}
	found := *item
	return &found, nil
}

func (r *fakeRepo) CreateAppointment(ctx context.Context, appointment *Appointment) error {
	item := *appointment
	r.appointments[appointment.ID] = &item
	return nil
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, appointment *Appointment) error {
	item := *appointment
	r.appointments[appointment.ID] = &item
	return nil
}

func (r *fakeRepo) DeleteAppointment(ctx context.Context, weddingID, id string) (*Appointment, error) {
	item, ok := r.appointments[id]
	if !ok || item.WeddingID != weddingID {
		return nil, ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	return item, nil
}

func (r *fakeRepo) ListContracts(ctx context.Context, weddingID, vendorID string) ([]Contract, error) {
	result := make([]Contract, 0)
	for _, item := range r.contracts {
		if item.WeddingID == weddingID && item.VendorID == vendorID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetContract(ctx context.Context, weddingID, id string) (*Contract, error) {
	item, ok := r.contracts[id]
	if !ok || item.WeddingID != weddingID {
		return nil, ErrContractNotFound
	}
	found := *item
	return &found, nil
}

func (r *fakeRepo) CreateContract(ctx context.Context, contract *Contract) error {
	item := *contract
	r.contracts[contract.ID] = &item
	return nil
}

func (r *fakeRepo) UpdateContract(ctx context.Context, contract *Contract) error {
	item := *contract
	r.contracts[contract.ID] = &item
	return nil
}

func (r *fakeRepo) DeleteContract(ctx context.Context, weddingID, id string) (*Contract, error) {
	item, ok := r.contracts[id]
	if !ok || item.WeddingID != weddingID {
		return nil, ErrContractNotFound
	}
	delete(r.contracts, id)
	return item, nil
}

func (r *fakeRepo) ListPayments(ctx context.Context, weddingID, vendorID string) ([]Payment, error) {
	result := make([]Payment, 0)
	for _, item := range r.payments {
		if item.WeddingID == weddingID && item.VendorID == vendorID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetPayment(ctx context.Context, weddingID, id string) (*Payment, error) {
	item, ok := r.payments[id]
	if !ok || item.WeddingID != weddingID {
		return nil, ErrPaymentNotFound
	}
	found := *item
	return &found, nil
}

func (r *fakeRepo) CreatePayment(ctx context.Context, payment *Payment) error {
	item := *payment
	r.payments[payment.ID] = &item
	return nil
}

func (r *fakeRepo) UpdatePayment(ctx context.Context, payment *Payment) error {
	item := *payment
	r.payments[payment.ID] = &item
	return nil
}

func (r *fakeRepo) DeletePayment(ctx context.Context, weddingID, id string) (*Payment, error) {
	item, ok := r.payments[id]
	if !ok || item.WeddingID != weddingID {
		return nil, ErrPaymentNotFound
	}
	delete(r.payments, id)
	return item, nil
}

func (r *fakeRepo) ListReviews(ctx context.Context, weddingID, vendorID string) ([]Review, error) {
	result := make([]Review, 0)
	for _, item := range r.reviews {
		if item.WeddingID == weddingID && item.VendorID == vendorID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetReview(ctx context.Context, weddingID, id string) (*Review, error) {
	item, ok := r.reviews[id]
	if !ok || item.WeddingID != weddingID {
		return nil, ErrReviewNotFound
	}
	found := *item
	return &found, nil
}

func (r *fakeRepo) GetReviewForUpdate(ctx context.Context, weddingID, id string) (*Review, error) {
	return r.GetReview(ctx, weddingID, id)
}

func (r *fakeRepo) CreateReview(ctx context.Context, review *Review) error {
	item := *review
	r.reviews[review.ID] = &item
	return nil
}

func (r *fakeRepo) UpdateReview(ctx context.Context, review *Review) error {
	item := *review
	r.reviews[review.ID] = &item
	return nil
}

func (r *fakeRepo) DeleteReview(ctx context.Context, weddingID, id string) (*Review, error) {
	item, ok := r.reviews[id]
	if !ok || item.WeddingID != weddingID {
		return nil, ErrReviewNotFound
	}
	delete(r.reviews, id)
	return item, nil
}

func (r *fakeRepo) UpsertVote(ctx context.Context, vote *ReviewVote) error {
	r.votes[vote.ReviewID+"/"+vote.UserID] = *vote
	return nil
}

func (r *fakeRepo) DeleteVote(ctx context.Context, reviewID, userID string) error {
	key := reviewID + "/" + userID
	if _, ok := r.votes[key]; !ok {
		return ErrVoteNotFound
	}
	delete(r.votes, key)
	return nil
}

func (r *fakeRepo) CountVotes(ctx context.Context, reviewID string) (int, int, error) {
	helpful, unhelpful := 0, 0
	for _, vote := range r.votes {
		if vote.ReviewID != reviewID {
			continue
		}
		if vote.IsHelpful {
			helpful++
		} else {
			unhelpful++
		}
	}
	return helpful, unhelpful, nil
}

func (r *fakeRepo) SetReviewCounts(ctx context.Context, reviewID string, helpful, unhelpful int) error {
	review, ok := r.reviews[reviewID]
	if !ok {
		return ErrReviewNotFound
	}
	review.HelpfulCount = helpful
	review.UnhelpfulCount = unhelpful
	return nil
}

type fakeStorage struct {
	objects map[string]string
	removed []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]string)}
}

func (s *fakeStorage) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.objects[path] = string(data)
	return "https://cdn.example.com/" + path, nil
}

func (s *fakeStorage) Remove(ctx context.Context, path string) error {
	delete(s.objects, path)
	s.removed = append(s.removed, path)
	return nil
}

type fakeNotifier struct {
	reminders []Reminder
}

func (n *fakeNotifier) RemindPayment(ctx context.Context, reminder Reminder) error {
	n.reminders = append(n.reminders, reminder)
	return nil
}

func seedVendor(t *testing.T, service *Service) *Vendor {
	t.Helper()
	vendor, err := service.CreateVendor(context.Background(), VendorInput{WeddingID: "w1", Name: "Bloom", Category: "florist", Email: " Hi@Bloom.Example "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return vendor
}

func TestCreateVendor(t *testing.T) {
	service := NewService(newFakeRepo(), nil, nil, nil, nil)

	vendor := seedVendor(t, service)
	if vendor.Email != "hi@bloom.example" {
		t.Fatalf("expected normalized email, got %q", vendor.Email)
	}
	if _, err := service.CreateVendor(context.Background(), VendorInput{WeddingID: "w1"}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestScopedItemsRequireVendor(t *testing.T) {
	service := NewService(newFakeRepo(), nil, nil, nil, nil)
	ctx := context.Background()

	_, err := service.CreateAppointment(ctx, AppointmentInput{WeddingID: "w1", VendorID: "nope", Title: "Tasting", StartsAt: time.Now()})
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
	_, err = service.CreatePayment(ctx, PaymentInput{WeddingID: "w1", VendorID: "nope", Amount: 10})
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
	_, err = service.ListReviews(ctx, "w1", "nope")
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
}

func TestAppointmentValidation(t *testing.T) {
	service := NewService(newFakeRepo(), nil, nil, nil, nil)
	vendor := seedVendor(t, service)

	_, err := service.CreateAppointment(context.Background(), AppointmentInput{WeddingID: "w1", VendorID: vendor.ID, Title: "Tasting"})
	if !errors.Is(err, ErrStartRequired) {
		t.Fatalf("expected ErrStartRequired, got %v", err)
	}
	_, err = service.CreateAppointment(context.Background(), AppointmentInput{WeddingID: "w1", VendorID: vendor.ID, StartsAt: time.Now()})
	if !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestVoteRecountsInTransaction(t *testing.T) {
	repo := newFakeRepo()
	hub := realtime.NewHub(16)
	sub, _ := hub.Subscribe(context.Background(), realtime.Filter{Table: ReviewsTable})
	service := NewService(repo, realtime.NewBroadcaster(hub, nil), nil, nil, nil)
	ctx := context.Background()

	vendor := seedVendor(t, service)
	review, err := service.CreateReview(ctx, ReviewInput{WeddingID: "w1", VendorID: vendor.ID, UserID: "author", Rating: 5, Body: "Great"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-sub.Events()

	if _, err := service.Vote(ctx, VoteInput{WeddingID: "w1", ReviewID: review.ID, UserID: "u1", IsHelpful: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Vote(ctx, VoteInput{WeddingID: "w1", ReviewID: review.ID, UserID: "u2", IsHelpful: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, err := service.Vote(ctx, VoteInput{WeddingID: "w1", ReviewID: review.ID, UserID: "u2", IsHelpful: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.HelpfulCount != 2 || updated.UnhelpfulCount != 0 {
		t.Fatalf("unexpected counts: %+v", updated)
	}
	if stored := repo.reviews[review.ID]; stored.HelpfulCount != 2 || stored.UnhelpfulCount != 0 {
		t.Fatalf("stored counts out of sync: %+v", stored)
	}

	// a repeated identical vote changes nothing and is not broadcast
	if _, err := service.Vote(ctx, VoteInput{WeddingID: "w1", ReviewID: review.ID, UserID: "u2", IsHelpful: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	broadcasts := 0
	for len(sub.Events()) > 0 {
		<-sub.Events()
		broadcasts++
	}
	if broadcasts != 3 {
		t.Fatalf("expected 3 review updates, got %d", broadcasts)
	}

	cleared, err := service.ClearVote(ctx, "w1", review.ID, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleared.HelpfulCount != 1 {
		t.Fatalf("expected 1 helpful vote, got %d", cleared.HelpfulCount)
	}
}

func TestVoteOnOwnReview(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, nil, nil, nil, nil)
	vendor := seedVendor(t, service)
	review, _ := service.CreateReview(context.Background(), ReviewInput{WeddingID: "w1", VendorID: vendor.ID, UserID: "author", Rating: 4})

	_, err := service.Vote(context.Background(), VoteInput{WeddingID: "w1", ReviewID: review.ID, UserID: "author", IsHelpful: true})
	if !errors.Is(err, ErrOwnReview) {
		t.Fatalf("expected ErrOwnReview, got %v", err)
	}
	if len(repo.votes) != 0 {
		t.Fatalf("vote must not be stored")
	}
}

func TestReviewRating(t *testing.T) {
	service := NewService(newFakeRepo(), nil, nil, nil, nil)
	vendor := seedVendor(t, service)

	for _, rating := range []int{0, 6} {
		_, err := service.CreateReview(context.Background(), ReviewInput{WeddingID: "w1", VendorID: vendor.ID, UserID: "u", Rating: rating})
		if !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestUploadContractFileReplacesPrevious(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	service := NewService(repo, nil, storage, nil, nil)
	ctx := context.Background()

	vendor := seedVendor(t, service)
	contract, err := service.CreateContract(ctx, ContractInput{WeddingID: "w1", VendorID: vendor.ID, Title: "Flowers", Amount: 1200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := service.UploadContractFile(ctx, UploadInput{WeddingID: "w1", ContractID: contract.ID, FileName: "draft v1.pdf", ContentType: "application/pdf", Body: strings.NewReader("v1")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.FilePath != "w1/contracts/"+contract.ID+"/draft_v1.pdf" {
		t.Fatalf("unexpected path: %s", first.FilePath)
	}
	if first.FileURL != "https://cdn.example.com/"+first.FilePath {
		t.Fatalf("unexpected url: %s", first.FileURL)
	}

	second, err := service.UploadContractFile(ctx, UploadInput{WeddingID: "w1", ContractID: contract.ID, FileName: "../../signed.pdf", Body: strings.NewReader("v2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.FilePath != "w1/contracts/"+contract.ID+"/signed.pdf" {
		t.Fatalf("unexpected path: %s", second.FilePath)
	}
	if len(storage.removed) != 1 || storage.removed[0] != first.FilePath {
		t.Fatalf("expected previous file removed, got %v", storage.removed)
	}

	if err := service.DeleteContract(ctx, "w1", contract.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(storage.objects) != 0 {
		t.Fatalf("expected storage to be empty, got %v", storage.objects)
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	service := NewService(newFakeRepo(), nil, nil, nil, nil)

	_, err := service.UploadContractFile(context.Background(), UploadInput{WeddingID: "w1", ContractID: "c", FileName: "a.pdf", Body: strings.NewReader("x")})
	if !errors.Is(err, ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}
}

func TestRemindPayment(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	service := NewService(repo, nil, nil, notifier, nil)
	ctx := context.Background()

	vendor := seedVendor(t, service)
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	payment, err := service.CreatePayment(ctx, PaymentInput{WeddingID: "w1", VendorID: vendor.ID, Amount: 250, DueDate: &due})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.RemindPayment(ctx, "w1", payment.ID, "couple@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.reminders) != 1 || notifier.reminders[0].VendorName != "Bloom" || notifier.reminders[0].Amount != 250 {
		t.Fatalf("unexpected reminders: %+v", notifier.reminders)
	}

	if _, err := service.UpdatePayment(ctx, PaymentInput{ID: payment.ID, WeddingID: "w1", Amount: 250, Status: PaymentPaid}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.RemindPayment(ctx, "w1", payment.ID, "couple@example.com"); !errors.Is(err, ErrPaymentNotPending) {
		t.Fatalf("expected ErrPaymentNotPending, got %v", err)
	}
}

func TestDeleteVendorRemovesContractFiles(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	service := NewService(repo, nil, storage, nil, nil)
	ctx := context.Background()

	vendor := seedVendor(t, service)
	contract, _ := service.CreateContract(ctx, ContractInput{WeddingID: "w1", VendorID: vendor.ID, Title: "Main"})
	if _, err := service.UploadContractFile(ctx, UploadInput{WeddingID: "w1", ContractID: contract.ID, FileName: "c.pdf", Body: strings.NewReader("x")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.DeleteVendor(ctx, "w1", vendor.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(storage.objects) != 0 {
		t.Fatalf("expected contract file removed")
	}
}
