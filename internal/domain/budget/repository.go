package budget

import "context"

type Repository interface {
	ListCategories(ctx context.Context, weddingID string) ([]Category, error)
	GetCategory(ctx context.Context, weddingID, id string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	UpdateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, weddingID, id string) (*Category, error)

	ListExpenses(ctx context.Context, weddingID string, filter ExpenseFilter) ([]Expense, error)
	GetExpense(ctx context.Context, weddingID, id string) (*Expense, error)
	CreateExpense(ctx context.Context, expense *Expense) error
	UpdateExpense(ctx context.Context, expense *Expense) error
	DeleteExpense(ctx context.Context, weddingID, id string) (*Expense, error)

	SumByCategory(ctx context.Context, weddingID string) ([]StatusTotal, error)
}
