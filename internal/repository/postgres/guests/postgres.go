package guests

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	guestsdomain "wedding-app-go/internal/domain/guests"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, weddingID string, filter guestsdomain.ListFilter) ([]guestsdomain.Guest, error) {
	query := r.db.WithContext(ctx).Where("wedding_id = ?", weddingID)
	if filter.Status != "" {
		query = query.Where("rsvp_status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var guests []guestsdomain.Guest
	if err := query.Order("created_at desc").Order("id desc").Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

func (r *PostgresRepository) Get(ctx context.Context, weddingID, id string) (*guestsdomain.Guest, error) {
	var guest guestsdomain.Guest
	if err := r.db.WithContext(ctx).Where("wedding_id = ? AND id = ?", weddingID, id).First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, guestsdomain.ErrGuestNotFound
		}
		return nil, err
	}
	return &guest, nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*guestsdomain.Guest, error) {
	var guest guestsdomain.Guest
	if err := r.db.WithContext(ctx).Where("rsvp_token = ?", token).First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, guestsdomain.ErrInvalidToken
		}
		return nil, err
	}
	return &guest, nil
}

func (r *PostgresRepository) Create(ctx context.Context, guest *guestsdomain.Guest) error {
	return r.db.WithContext(ctx).Create(guest).Error
}

func (r *PostgresRepository) Update(ctx context.Context, guest *guestsdomain.Guest) error {
	result := r.db.WithContext(ctx).
		Model(&guestsdomain.Guest{}).
		Where("wedding_id = ? AND id = ?", guest.WeddingID, guest.ID).
		Updates(map[string]interface{}{
			"name":                 guest.Name,
			"email":                guest.Email,
			"phone":                guest.Phone,
			"rsvp_status":          guest.RSVPStatus,
			"plus_one":             guest.PlusOne,
			"dietary_restrictions": guest.DietaryRestrictions,
			"category":             guest.Category,
			"responded_at":         guest.RespondedAt,
			"updated_at":           guest.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return guestsdomain.ErrGuestNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, weddingID, id string) (*guestsdomain.Guest, error) {
	var deleted guestsdomain.Guest
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Delete(&deleted)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, guestsdomain.ErrGuestNotFound
	}
	return &deleted, nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, weddingID string) ([]guestsdomain.StatusCount, error) {
	type row struct {
		Status   string `gorm:"column:status"`
		Count    int64  `gorm:"column:count"`
		PlusOnes int64  `gorm:"column:plus_ones"`
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&guestsdomain.Guest{}).
		Select("rsvp_status AS status, COUNT(*) AS count, COUNT(*) FILTER (WHERE plus_one) AS plus_ones").
		Where("wedding_id = ?", weddingID).
		Group("rsvp_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]guestsdomain.StatusCount, 0, len(rows))
	for _, item := range rows {
		counts = append(counts, guestsdomain.StatusCount{
			Status:   guestsdomain.RSVPStatus(item.Status),
			Count:    item.Count,
			PlusOnes: item.PlusOnes,
		})
	}
	return counts, nil
}
