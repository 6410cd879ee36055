package budget

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	budgetdomain "wedding-app-go/internal/domain/budget"
	"wedding-app-go/internal/repository/postgres/pgerr"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListCategories(ctx context.Context, weddingID string) ([]budgetdomain.Category, error) {
	var categories []budgetdomain.Category
	if err := r.db.WithContext(ctx).
		Where("wedding_id = ?", weddingID).
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) GetCategory(ctx context.Context, weddingID, id string) (*budgetdomain.Category, error) {
	var category budgetdomain.Category
	err := r.db.WithContext(ctx).Where("wedding_id = ? AND id = ?", weddingID, id).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, budgetdomain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *budgetdomain.Category) error {
	err := r.db.WithContext(ctx).Create(category).Error
	if pgerr.IsUniqueViolation(err) {
		return budgetdomain.ErrCategoryNameTaken
	}
	return err
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, category *budgetdomain.Category) error {
	result := r.db.WithContext(ctx).
		Model(&budgetdomain.Category{}).
		Where("wedding_id = ? AND id = ?", category.WeddingID, category.ID).
		Updates(map[string]interface{}{
			"name":      category.Name,
			"allocated": category.Allocated,
		})
	if pgerr.IsUniqueViolation(result.Error) {
		return budgetdomain.ErrCategoryNameTaken
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return budgetdomain.ErrCategoryNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, weddingID, id string) (*budgetdomain.Category, error) {
	var deleted budgetdomain.Category
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Delete(&deleted)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, budgetdomain.ErrCategoryNotFound
	}
	return &deleted, nil
}

func (r *PostgresRepository) ListExpenses(ctx context.Context, weddingID string, filter budgetdomain.ExpenseFilter) ([]budgetdomain.Expense, error) {
	query := r.db.WithContext(ctx).Where("wedding_id = ?", weddingID)
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var expenses []budgetdomain.Expense
	if err := query.
		Order("due_date asc nulls last").
		Order("created_at asc").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *PostgresRepository) GetExpense(ctx context.Context, weddingID, id string) (*budgetdomain.Expense, error) {
	var expense budgetdomain.Expense
	err := r.db.WithContext(ctx).Where("wedding_id = ? AND id = ?", weddingID, id).First(&expense).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, budgetdomain.ErrExpenseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *budgetdomain.Expense) error {
	err := r.db.WithContext(ctx).Create(expense).Error
	if pgerr.IsForeignKeyViolation(err) {
		return budgetdomain.ErrCategoryNotFound
	}
	return err
}

func (r *PostgresRepository) UpdateExpense(ctx context.Context, expense *budgetdomain.Expense) error {
	result := r.db.WithContext(ctx).
		Model(&budgetdomain.Expense{}).
		Where("wedding_id = ? AND id = ?", expense.WeddingID, expense.ID).
		Updates(map[string]interface{}{
			"category_id": expense.CategoryID,
			"name":        expense.Name,
			"amount":      expense.Amount,
			"status":      expense.Status,
			"due_date":    expense.DueDate,
			"paid_at":     expense.PaidAt,
			"updated_at":  expense.UpdatedAt,
		})
	if pgerr.IsForeignKeyViolation(result.Error) {
		return budgetdomain.ErrCategoryNotFound
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return budgetdomain.ErrExpenseNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteExpense(ctx context.Context, weddingID, id string) (*budgetdomain.Expense, error) {
	var deleted budgetdomain.Expense
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("wedding_id = ? AND id = ?", weddingID, id).
		Delete(&deleted)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, budgetdomain.ErrExpenseNotFound
	}
	return &deleted, nil
}

func (r *PostgresRepository) SumByCategory(ctx context.Context, weddingID string) ([]budgetdomain.StatusTotal, error) {
	type row struct {
		CategoryID *string `gorm:"column:category_id"`
		Status     string  `gorm:"column:status"`
		Total      float64 `gorm:"column:total"`
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&budgetdomain.Expense{}).
		Select("category_id, status, COALESCE(SUM(amount), 0) AS total").
		Where("wedding_id = ?", weddingID).
		Group("category_id, status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]budgetdomain.StatusTotal, 0, len(rows))
	for _, item := range rows {
		totals = append(totals, budgetdomain.StatusTotal{
			CategoryID: item.CategoryID,
			Status:     budgetdomain.Status(item.Status),
			Total:      item.Total,
		})
	}
	return totals, nil
}
