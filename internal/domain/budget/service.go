package budget

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"wedding-app-go/internal/realtime"
)

type Service struct {
	repo   Repository
	events *realtime.Broadcaster
}

func NewService(repo Repository, events *realtime.Broadcaster) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) ListCategories(ctx context.Context, weddingID string) ([]Category, error) {
	categories, err := s.repo.ListCategories(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	name, err := validateCategory(input.Name, input.Allocated)
	if err != nil {
		return nil, err
	}

	category := Category{
		ID:        uuid.NewString(),
		WeddingID: input.WeddingID,
		Name:      name,
		Allocated: roundMoney(input.Allocated),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, CategoriesTable, category.WeddingID, category)
	return &category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*Category, error) {
	name, err := validateCategory(input.Name, input.Allocated)
	if err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategory(ctx, input.WeddingID, input.ID)
	if err != nil {
		return nil, err
	}
	old := *category

	category.Name = name
	category.Allocated = roundMoney(input.Allocated)
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.events.Updated(ctx, CategoriesTable, category.WeddingID, category, old)
	return category, nil
}

// DeleteCategory leaves the category's expenses in place as uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeleteCategory(ctx, weddingID, id)
	if err != nil {
		return err
	}
	s.events.Deleted(ctx, CategoriesTable, weddingID, deleted)
	return nil
}

func (s *Service) ListExpenses(ctx context.Context, weddingID string, filter ExpenseFilter) ([]Expense, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	expenses, err := s.repo.ListExpenses(ctx, weddingID, filter)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []Expense{}
	}
	return expenses, nil
}

func (s *Service) GetExpense(ctx context.Context, weddingID, id string) (*Expense, error) {
	return s.repo.GetExpense(ctx, weddingID, id)
}

func (s *Service) CreateExpense(ctx context.Context, input CreateExpenseInput) (*Expense, error) {
	name, status, err := validateExpense(input.Name, input.Amount, input.Status)
	if err != nil {
		return nil, err
	}
	categoryID, err := s.checkCategory(ctx, input.WeddingID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expense := Expense{
		ID:         uuid.NewString(),
		WeddingID:  input.WeddingID,
		CategoryID: categoryID,
		Name:       name,
		Amount:     roundMoney(input.Amount),
		Status:     status,
		DueDate:    dateOnly(input.DueDate),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == StatusPaid {
		expense.PaidAt = &now
	}
	if err := s.repo.CreateExpense(ctx, &expense); err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, ExpensesTable, expense.WeddingID, expense)
	return &expense, nil
}

func (s *Service) UpdateExpense(ctx context.Context, input UpdateExpenseInput) (*Expense, error) {
	name, status, err := validateExpense(input.Name, input.Amount, input.Status)
	if err != nil {
		return nil, err
	}
	categoryID, err := s.checkCategory(ctx, input.WeddingID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	expense, err := s.repo.GetExpense(ctx, input.WeddingID, input.ID)
	if err != nil {
		return nil, err
	}
	old := *expense

	now := time.Now().UTC()
	expense.CategoryID = categoryID
	expense.Name = name
	expense.Amount = roundMoney(input.Amount)
	expense.DueDate = dateOnly(input.DueDate)
	if status != expense.Status {
		if status == StatusPaid {
			expense.PaidAt = &now
		} else {
			expense.PaidAt = nil
		}
	}
	expense.Status = status
	expense.UpdatedAt = now
	if err := s.repo.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}

	s.events.Updated(ctx, ExpensesTable, expense.WeddingID, expense, old)
	return expense, nil
}

func (s *Service) DeleteExpense(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeleteExpense(ctx, weddingID, id)
	if err != nil {
		return err
	}
	s.events.Deleted(ctx, ExpensesTable, weddingID, deleted)
	return nil
}

// Report aggregates expenses per category. Remaining is what is left of the
// allocation once paid and pending expenses are subtracted.
func (s *Service) Report(ctx context.Context, weddingID string) (*Report, error) {
	categories, err := s.repo.ListCategories(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.SumByCategory(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	return buildReport(categories, totals), nil
}

func buildReport(categories []Category, totals []StatusTotal) *Report {
	report := &Report{
		Lines:         make([]Line, 0, len(categories)),
		Uncategorized: Line{Name: "Uncategorized"},
		Total:         Line{Name: "Total"},
	}

	index := make(map[string]int, len(categories))
	for i, category := range categories {
		id := category.ID
		index[id] = i
		report.Lines = append(report.Lines, Line{
			CategoryID: &id,
			Name:       category.Name,
			Allocated:  category.Allocated,
		})
	}

	for _, total := range totals {
		line := &report.Uncategorized
		if total.CategoryID != nil {
			if i, ok := index[*total.CategoryID]; ok {
				line = &report.Lines[i]
			}
		}
		addTotal(line, total)
	}

	for i := range report.Lines {
		finish(&report.Lines[i])
		accumulate(&report.Total, report.Lines[i])
	}
	finish(&report.Uncategorized)
	accumulate(&report.Total, report.Uncategorized)
	finish(&report.Total)
	return report
}

func addTotal(line *Line, total StatusTotal) {
	switch total.Status {
	case StatusPaid:
		line.Spent += total.Total
	case StatusPending:
		line.Pending += total.Total
	case StatusCancelled:
		line.Cancelled += total.Total
	}
}

func accumulate(dst *Line, src Line) {
	dst.Allocated += src.Allocated
	dst.Spent += src.Spent
	dst.Pending += src.Pending
	dst.Cancelled += src.Cancelled
}

func finish(line *Line) {
	line.Allocated = roundMoney(line.Allocated)
	line.Spent = roundMoney(line.Spent)
	line.Pending = roundMoney(line.Pending)
	line.Cancelled = roundMoney(line.Cancelled)
	line.Remaining = roundMoney(line.Allocated - line.Spent - line.Pending)
}

func (s *Service) checkCategory(ctx context.Context, weddingID string, categoryID *string) (*string, error) {
	if categoryID == nil || strings.TrimSpace(*categoryID) == "" {
		return nil, nil
	}
	id := strings.TrimSpace(*categoryID)
	if _, err := s.repo.GetCategory(ctx, weddingID, id); err != nil {
		return nil, err
	}
	return &id, nil
}

func validateCategory(name string, allocated float64) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if allocated < 0 || math.IsNaN(allocated) || math.IsInf(allocated, 0) {
		return "", ErrInvalidAmount
	}
	return name, nil
}

func validateExpense(name string, amount float64, status Status) (string, Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ErrNameRequired
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", "", ErrInvalidAmount
	}
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return "", "", ErrInvalidStatus
	}
	return name, status, nil
}

func roundMoney(value float64) float64 {
	return math.Round(value*100) / 100
}

func dateOnly(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	date := time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
	return &date
}
