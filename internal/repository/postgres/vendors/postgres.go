package vendors

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	vendorsdomain "wedding-app-go/internal/domain/vendors"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(vendorsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// first loads one wedding-scoped row into dest, mapping a miss to notFound.
func (r *PostgresRepository) first(ctx context.Context, dest interface{}, notFound error, weddingID, id string, locking bool) error {
	query := r.db.WithContext(ctx)
	if locking {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.Where("wedding_id = ? AND id = ?", weddingID, id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

// remove deletes one wedding-scoped row and fills dest with what was deleted.
func (r *PostgresRepository) remove(ctx context.Context, dest interface{}, notFound error, weddingID, id string) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Delete(dest)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func (r *PostgresRepository) update(ctx context.Context, model interface{}, notFound error, weddingID, id string, values map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(model).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func (r *PostgresRepository) ListVendors(ctx context.Context, weddingID, category string) ([]vendorsdomain.Vendor, error) {
	query := r.db.WithContext(ctx).Where("wedding_id = ?", weddingID)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var vendors []vendorsdomain.Vendor
	if err := query.Order("name asc").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *PostgresRepository) GetVendor(ctx context.Context, weddingID, id string) (*vendorsdomain.Vendor, error) {
	var vendor vendorsdomain.Vendor
	if err := r.first(ctx, &vendor, vendorsdomain.ErrVendorNotFound, weddingID, id, false); err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *PostgresRepository) CreateVendor(ctx context.Context, vendor *vendorsdomain.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *PostgresRepository) UpdateVendor(ctx context.Context, vendor *vendorsdomain.Vendor) error {
	return r.update(ctx, &vendorsdomain.Vendor{}, vendorsdomain.ErrVendorNotFound, vendor.WeddingID, vendor.ID, map[string]interface{}{
		"name":       vendor.Name,
		"category":   vendor.Category,
		"email":      vendor.Email,
		"phone":      vendor.Phone,
		"website":    vendor.Website,
		"notes":      vendor.Notes,
		"updated_at": vendor.UpdatedAt,
	})
}

func (r *PostgresRepository) DeleteVendor(ctx context.Context, weddingID, id string) (*vendorsdomain.Vendor, error) {
	var deleted vendorsdomain.Vendor
	if err := r.remove(ctx, &deleted, vendorsdomain.ErrVendorNotFound, weddingID, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *PostgresRepository) ListAppointments(ctx context.Context, weddingID, vendorID string) ([]vendorsdomain.Appointment, error) {
	var items []vendorsdomain.Appointment
	if err := r.db.WithContext(ctx).
		Where("wedding_id = ? AND vendor_id = ?", weddingID, vendorID).
		Order("starts_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetAppointment(ctx context.Context, weddingID, id string) (*vendorsdomain.Appointment, error) {
	var item vendorsdomain.Appointment
	if err := r.first(ctx, &item, vendorsdomain.ErrAppointmentNotFound, weddingID, id, false); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateAppointment(ctx context.Context, appointment *vendorsdomain.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *PostgresRepository) UpdateAppointment(ctx context.Context, appointment *vendorsdomain.Appointment) error {
	return r.update(ctx, &vendorsdomain.Appointment{}, vendorsdomain.ErrAppointmentNotFound, appointment.WeddingID, appointment.ID, map[string]interface{}{
		"title":      appointment.Title,
		"starts_at":  appointment.StartsAt,
		"location":   appointment.Location,
		"notes":      appointment.Notes,
		"updated_at": appointment.UpdatedAt,
	})
}

func (r *PostgresRepository) DeleteAppointment(ctx context.Context, weddingID, id string) (*vendorsdomain.Appointment, error) {
	var deleted vendorsdomain.Appointment
	if err := r.remove(ctx, &deleted, vendorsdomain.ErrAppointmentNotFound, weddingID, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *PostgresRepository) ListContracts(ctx context.Context, weddingID, vendorID string) ([]vendorsdomain.Contract, error) {
	var items []vendorsdomain.Contract
	if err := r.db.WithContext(ctx).
		Where("wedding_id = ? AND vendor_id = ?", weddingID, vendorID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetContract(ctx context.Context, weddingID, id string) (*vendorsdomain.Contract, error) {
	var item vendorsdomain.Contract
	if err := r.first(ctx, &item, vendorsdomain.ErrContractNotFound, weddingID, id, false); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateContract(ctx context.Context, contract *vendorsdomain.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *PostgresRepository) UpdateContract(ctx context.Context, contract *vendorsdomain.Contract) error {
	return r.update(ctx, &vendorsdomain.Contract{}, vendorsdomain.ErrContractNotFound, contract.WeddingID, contract.ID, map[string]interface{}{
		"title":     contract.Title,
		"file_path": contract.FilePath,
		"file_url":  contract.FileURL,
		"amount":    contract.Amount,
		"signed_at": contract.SignedAt,
	})
}

func (r *PostgresRepository) DeleteContract(ctx context.Context, weddingID, id string) (*vendorsdomain.Contract, error) {
	var deleted vendorsdomain.Contract
	if err := r.remove(ctx, &deleted, vendorsdomain.ErrContractNotFound, weddingID, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *PostgresRepository) ListPayments(ctx context.Context, weddingID, vendorID string) ([]vendorsdomain.Payment, error) {
	var items []vendorsdomain.Payment
	if err := r.db.WithContext(ctx).
		Where("wedding_id = ? AND vendor_id = ?", weddingID, vendorID).
		Order("due_date asc nulls last").
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetPayment(ctx context.Context, weddingID, id string) (*vendorsdomain.Payment, error) {
	var item vendorsdomain.Payment
	if err := r.first(ctx, &item, vendorsdomain.ErrPaymentNotFound, weddingID, id, false); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreatePayment(ctx context.Context, payment *vendorsdomain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *PostgresRepository) UpdatePayment(ctx context.Context, payment *vendorsdomain.Payment) error {
	return r.update(ctx, &vendorsdomain.Payment{}, vendorsdomain.ErrPaymentNotFound, payment.WeddingID, payment.ID, map[string]interface{}{
		"amount":     payment.Amount,
		"due_date":   payment.DueDate,
		"paid_at":    payment.PaidAt,
		"status":     payment.Status,
		"updated_at": payment.UpdatedAt,
	})
}

func (r *PostgresRepository) DeletePayment(ctx context.Context, weddingID, id string) (*vendorsdomain.Payment, error) {
	var deleted vendorsdomain.Payment
	if err := r.remove(ctx, &deleted, vendorsdomain.ErrPaymentNotFound, weddingID, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *PostgresRepository) ListReviews(ctx context.Context, weddingID, vendorID string) ([]vendorsdomain.Review, error) {
	var items []vendorsdomain.Review
	if err := r.db.WithContext(ctx).
		Where("wedding_id = ? AND vendor_id = ?", weddingID, vendorID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetReview(ctx context.Context, weddingID, id string) (*vendorsdomain.Review, error) {
	var item vendorsdomain.Review
	if err := r.first(ctx, &item, vendorsdomain.ErrReviewNotFound, weddingID, id, false); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) GetReviewForUpdate(ctx context.Context, weddingID, id string) (*vendorsdomain.Review, error) {
	var item vendorsdomain.Review
	if err := r.first(ctx, &item, vendorsdomain.ErrReviewNotFound, weddingID, id, true); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateReview(ctx context.Context, review *vendorsdomain.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *PostgresRepository) UpdateReview(ctx context.Context, review *vendorsdomain.Review) error {
	return r.update(ctx, &vendorsdomain.Review{}, vendorsdomain.ErrReviewNotFound, review.WeddingID, review.ID, map[string]interface{}{
		"rating":     review.Rating,
		"body":       review.Body,
		"updated_at": review.UpdatedAt,
	})
}

func (r *PostgresRepository) DeleteReview(ctx context.Context, weddingID, id string) (*vendorsdomain.Review, error) {
	var deleted vendorsdomain.Review
	if err := r.remove(ctx, &deleted, vendorsdomain.ErrReviewNotFound, weddingID, id); err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *PostgresRepository) UpsertVote(ctx context.Context, vote *vendorsdomain.ReviewVote) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_helpful"}),
		}).
		Create(vote).Error
}

func (r *PostgresRepository) DeleteVote(ctx context.Context, reviewID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&vendorsdomain.ReviewVote{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return vendorsdomain.ErrVoteNotFound
	}
	return nil
}

func (r *PostgresRepository) CountVotes(ctx context.Context, reviewID string) (int, int, error) {
	var counts struct {
		Helpful   int `gorm:"column:helpful"`
		Unhelpful int `gorm:"column:unhelpful"`
	}
	if err := r.db.WithContext(ctx).
		Model(&vendorsdomain.ReviewVote{}).
		Select("COUNT(*) FILTER (WHERE is_helpful) AS helpful, COUNT(*) FILTER (WHERE NOT is_helpful) AS unhelpful").
		Where("review_id = ?", reviewID).
		Scan(&counts).Error; err != nil {
		return 0, 0, err
	}
	return counts.Helpful, counts.Unhelpful, nil
}

func (r *PostgresRepository) SetReviewCounts(ctx context.Context, reviewID string, helpful, unhelpful int) error {
	return r.db.WithContext(ctx).
		Model(&vendorsdomain.Review{}).
		Where("id = ?", reviewID).
		Updates(map[string]interface{}{
			"helpful_count":   helpful,
			"unhelpful_count": unhelpful,
		}).Error
}
