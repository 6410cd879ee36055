package wedding

import (
	"context"
	"errors"

	"gorm.io/gorm"

	weddingdomain "wedding-app-go/internal/domain/wedding"
	"wedding-app-go/internal/repository/postgres/pgerr"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID string) (*weddingdomain.Wedding, error) {
	var wedding weddingdomain.Wedding
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&wedding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, weddingdomain.ErrWeddingNotFound
		}
		return nil, err
	}
	return &wedding, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*weddingdomain.Wedding, error) {
	var wedding weddingdomain.Wedding
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&wedding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, weddingdomain.ErrWeddingNotFound
		}
		return nil, err
	}
	return &wedding, nil
}

func (r *PostgresRepository) Create(ctx context.Context, wedding *weddingdomain.Wedding) error {
	err := r.db.WithContext(ctx).Create(wedding).Error
	if pgerr.IsUniqueViolation(err) {
		return weddingdomain.ErrAlreadyHasWedding
	}
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, wedding *weddingdomain.Wedding) error {
	return r.db.WithContext(ctx).
		Model(&weddingdomain.Wedding{}).
		Where("id = ?", wedding.ID).
		Updates(map[string]interface{}{
			"title":      wedding.Title,
			"date":       wedding.Date,
			"venue":      wedding.Venue,
			"updated_at": wedding.UpdatedAt,
		}).Error
}
