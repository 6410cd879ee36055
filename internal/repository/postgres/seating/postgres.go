package seating

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	seatingdomain "wedding-app-go/internal/domain/seating"
	"wedding-app-go/internal/repository/postgres/pgerr"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(seatingdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListTables(ctx context.Context, weddingID string) ([]seatingdomain.Table, error) {
	var tables []seatingdomain.Table
	if err := r.db.WithContext(ctx).
		Where("wedding_id = ?", weddingID).
		Order("created_at asc").
		Order("id asc").
		Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *PostgresRepository) GetTable(ctx context.Context, weddingID, id string) (*seatingdomain.Table, error) {
	var table seatingdomain.Table
	err := r.db.WithContext(ctx).Where("wedding_id = ? AND id = ?", weddingID, id).First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, seatingdomain.ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *PostgresRepository) CreateTable(ctx context.Context, table *seatingdomain.Table) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *PostgresRepository) UpdateTable(ctx context.Context, table *seatingdomain.Table) error {
	result := r.db.WithContext(ctx).
		Model(&seatingdomain.Table{}).
		Where("wedding_id = ? AND id = ?", table.WeddingID, table.ID).
		Updates(map[string]interface{}{
			"name":       table.Name,
			"capacity":   table.Capacity,
			"shape":      table.Shape,
			"position_x": table.PositionX,
			"position_y": table.PositionY,
			"updated_at": table.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return seatingdomain.ErrTableNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteTable(ctx context.Context, weddingID, id string) (*seatingdomain.Table, error) {
	var deleted seatingdomain.Table
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Delete(&deleted)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, seatingdomain.ErrTableNotFound
	}
	return &deleted, nil
}

func (r *PostgresRepository) ListSeats(ctx context.Context, weddingID, tableID string) ([]seatingdomain.Seat, error) {
	var seats []seatingdomain.Seat
	if err := r.db.WithContext(ctx).
		Table("seats").
		Select("seats.*, COALESCE(guests.name, '') AS guest_name").
		Joins("LEFT JOIN guests ON guests.id = seats.guest_id").
		Where("seats.wedding_id = ? AND seats.table_id = ?", weddingID, tableID).
		Order("seats.number asc").
		Scan(&seats).Error; err != nil {
		return nil, err
	}
	return seats, nil
}

func (r *PostgresRepository) GetSeatForUpdate(ctx context.Context, weddingID, id string) (*seatingdomain.Seat, error) {
	var seat seatingdomain.Seat
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		First(&seat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, seatingdomain.ErrSeatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *PostgresRepository) FindSeatByGuest(ctx context.Context, weddingID, guestID string) (*seatingdomain.Seat, error) {
	var seat seatingdomain.Seat
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("wedding_id = ? AND guest_id = ?", weddingID, guestID).
		First(&seat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, seatingdomain.ErrSeatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *PostgresRepository) CreateSeats(ctx context.Context, seats []seatingdomain.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Omit("guest_name").Create(&seats).Error
	if pgerr.IsUniqueViolation(err) {
		return seatingdomain.ErrSeatNumberTaken
	}
	return err
}

func (r *PostgresRepository) DeleteSeat(ctx context.Context, weddingID, id string) (*seatingdomain.Seat, error) {
	var deleted seatingdomain.Seat
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Delete(&deleted)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, seatingdomain.ErrSeatNotFound
	}
	return &deleted, nil
}

func (r *PostgresRepository) SetSeatGuest(ctx context.Context, seatID string, guestID *string) error {
	result := r.db.WithContext(ctx).
		Model(&seatingdomain.Seat{}).
		Where("id = ?", seatID).
		Updates(map[string]interface{}{
			"guest_id":   guestID,
			"updated_at": time.Now().UTC(),
		})
	if pgerr.IsUniqueViolation(result.Error) {
		return seatingdomain.ErrGuestAlreadySeated
	}
	if pgerr.IsForeignKeyViolation(result.Error) {
		return seatingdomain.ErrGuestNotFound
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return seatingdomain.ErrSeatNotFound
	}
	return nil
}

func (r *PostgresRepository) GetGuestName(ctx context.Context, weddingID, guestID string) (string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Table("guests").
		Where("wedding_id = ? AND id = ?", weddingID, guestID).
		Pluck("name", &names).Error; err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", seatingdomain.ErrGuestNotFound
	}
	return names[0], nil
}
