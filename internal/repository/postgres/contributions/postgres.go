package contributions

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	contributionsdomain "wedding-app-go/internal/domain/contributions"
	"wedding-app-go/internal/repository/postgres/pgerr"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type guestRow struct {
	ID        string `gorm:"column:id"`
	WeddingID string `gorm:"column:wedding_id"`
	Name      string `gorm:"column:name"`
}

func (r *PostgresRepository) findGuest(ctx context.Context, notFound error, query string, args ...interface{}) (*contributionsdomain.GuestRef, error) {
	var rows []guestRow
	if err := r.db.WithContext(ctx).
		Table("guests").
		Select("id, wedding_id, name").
		Where(query, args...).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound
	}
	return &contributionsdomain.GuestRef{ID: rows[0].ID, WeddingID: rows[0].WeddingID, Name: rows[0].Name}, nil
}

func (r *PostgresRepository) FindGuestByToken(ctx context.Context, token string) (*contributionsdomain.GuestRef, error) {
	return r.findGuest(ctx, contributionsdomain.ErrInvalidToken, "rsvp_token = ?", token)
}

func (r *PostgresRepository) GetGuest(ctx context.Context, weddingID, id string) (*contributionsdomain.GuestRef, error) {
	return r.findGuest(ctx, contributionsdomain.ErrGuestNotFound, "wedding_id = ? AND id = ?", weddingID, id)
}

func (r *PostgresRepository) ListPhotos(ctx context.Context, weddingID string) ([]contributionsdomain.Photo, error) {
	var photos []contributionsdomain.Photo
	if err := r.db.WithContext(ctx).
		Where("wedding_id = ?", weddingID).
		Order("created_at desc").
		Order("id desc").
		Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PostgresRepository) GetPhoto(ctx context.Context, weddingID, id string) (*contributionsdomain.Photo, error) {
	var photo contributionsdomain.Photo
	err := r.db.WithContext(ctx).Where("wedding_id = ? AND id = ?", weddingID, id).First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, contributionsdomain.ErrPhotoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PostgresRepository) CreatePhoto(ctx context.Context, photo *contributionsdomain.Photo) error {
	err := r.db.WithContext(ctx).Create(photo).Error
	if pgerr.IsForeignKeyViolation(err) {
		return contributionsdomain.ErrGuestNotFound
	}
	return err
}

func (r *PostgresRepository) UpdateCaption(ctx context.Context, weddingID, id, caption string) error {
	result := r.db.WithContext(ctx).
		Model(&contributionsdomain.Photo{}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Update("caption", caption)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contributionsdomain.ErrPhotoNotFound
	}
	return nil
}

func (r *PostgresRepository) DeletePhoto(ctx context.Context, weddingID, id string) (*contributionsdomain.Photo, error) {
	var deleted contributionsdomain.Photo
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Delete(&deleted)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, contributionsdomain.ErrPhotoNotFound
	}
	return &deleted, nil
}

func (r *PostgresRepository) ListComments(ctx context.Context, weddingID, photoID string) ([]contributionsdomain.Comment, error) {
	var comments []contributionsdomain.Comment
	if err := r.db.WithContext(ctx).
		Table("photo_comments").
		Select("photo_comments.*, COALESCE(guests.name, '') AS guest_name").
		Joins("LEFT JOIN guests ON guests.id = photo_comments.guest_id").
		Where("photo_comments.wedding_id = ? AND photo_comments.photo_id = ?", weddingID, photoID).
		Order("photo_comments.created_at asc").
		Scan(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PostgresRepository) CreateComment(ctx context.Context, comment *contributionsdomain.Comment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if pgerr.IsForeignKeyViolation(err) {
		if pgerr.Constraint(err) == "photo_comments_photo_id_fkey" {
			return contributionsdomain.ErrPhotoNotFound
		}
		return contributionsdomain.ErrGuestNotFound
	}
	return err
}

func (r *PostgresRepository) DeleteComment(ctx context.Context, weddingID, id string) (*contributionsdomain.Comment, error) {
	var deleted contributionsdomain.Comment
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Delete(&deleted)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, contributionsdomain.ErrCommentNotFound
	}
	return &deleted, nil
}

func (r *PostgresRepository) ListSongs(ctx context.Context, weddingID string, status contributionsdomain.SongStatus) ([]contributionsdomain.SongRequest, error) {
	query := r.db.WithContext(ctx).Where("wedding_id = ?", weddingID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var songs []contributionsdomain.SongRequest
	if err := query.Order("created_at desc").Order("id desc").Find(&songs).Error; err != nil {
		return nil, err
	}
	return songs, nil
}

func (r *PostgresRepository) GetSong(ctx context.Context, weddingID, id string) (*contributionsdomain.SongRequest, error) {
	var song contributionsdomain.SongRequest
	err := r.db.WithContext(ctx).Where("wedding_id = ? AND id = ?", weddingID, id).First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, contributionsdomain.ErrSongNotFound
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (r *PostgresRepository) CreateSong(ctx context.Context, song *contributionsdomain.SongRequest) error {
	err := r.db.WithContext(ctx).Create(song).Error
	if pgerr.IsForeignKeyViolation(err) {
		return contributionsdomain.ErrGuestNotFound
	}
	return err
}

func (r *PostgresRepository) UpdateSongStatus(ctx context.Context, song *contributionsdomain.SongRequest) error {
	result := r.db.WithContext(ctx).
		Model(&contributionsdomain.SongRequest{}).
		Where("wedding_id = ? AND id = ?", song.WeddingID, song.ID).
		Updates(map[string]interface{}{
			"status":     song.Status,
			"updated_at": song.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contributionsdomain.ErrSongNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteSong(ctx context.Context, weddingID, id string) (*contributionsdomain.SongRequest, error) {
	var deleted contributionsdomain.SongRequest
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Delete(&deleted)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, contributionsdomain.ErrSongNotFound
	}
	return &deleted, nil
}
