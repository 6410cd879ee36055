package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"wedding-app-go/internal/realtime"
)

type fakeRepo struct {
	categories map[string]*Category
	expenses   map[string]*Expense
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories: make(map[string]*Category),
		expenses:   make(map[string]*Expense),
	}
}

func (r *fakeRepo) ListCategories(ctx context.Context, weddingID string) ([]Category, error) {
	result := make([]Category, 0)
	for _, category := range r.categories {
		if category.WeddingID == weddingID {
			result = append(result, *category)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetCategory(ctx context.Context, weddingID, id string) (*Category, error) {
	category, ok := r.categories[id]
	if !ok || category.WeddingID != weddingID {
		return nil, ErrCategoryNotFound
	}
	item := *category
	return &item, nil
}

func (r *fakeRepo) CreateCategory(ctx context.Context, category *Category) error {
	for _, existing := range r.categories {
		if existing.WeddingID == category.WeddingID && existing.Name == category.Name {
			return ErrCategoryNameTaken
		}
	}
	item := *category
	r.categories[category.ID] = &item
	return nil
}

func (r *fakeRepo) UpdateCategory(ctx context.Context, category *Category) error {
	item := *category
	r.categories[category.ID] = &item
	return nil
}

func (r *fakeRepo) DeleteCategory(ctx context.Context, weddingID, id string) (*Category, error) {
	category, ok := r.categories[id]
	if !ok || category.WeddingID != weddingID {
		return nil, ErrCategoryNotFound
	}
	delete(r.categories, id)
	for _, expense := range r.expenses {
		if expense.CategoryID != nil && *expense.CategoryID == id {
			expense.CategoryID = nil
		}
	}
	return category, nil
}

func (r *fakeRepo) ListExpenses(ctx context.Context, weddingID string, filter ExpenseFilter) ([]Expense, error) {
	result := make([]Expense, 0)
	for _, expense := range r.expenses {
		if expense.WeddingID != weddingID {
			continue
		}
		if filter.Status != "" && expense.Status != filter.Status {
			continue
		}
		result = append(result, *expense)
	}
	return result, nil
}

func (r *fakeRepo) GetExpense(ctx context.Context, weddingID, id string) (*Expense, error) {
	expense, ok := r.expenses[id]
	if !ok || expense.WeddingID != weddingID {
		return nil, ErrExpenseNotFound
	}
	item := *expense
	return &item, nil
}

func (r *fakeRepo) CreateExpense(ctx context.Context, expense *Expense) error {
	item := *expense
	r.expenses[expense.ID] = &item
	return nil
}

func (r *fakeRepo) UpdateExpense(ctx context.Context, expense *Expense) error {
	item := *expense
	r.expenses[expense.ID] = &item
	return nil
}

func (r *fakeRepo) DeleteExpense(ctx context.Context, weddingID, id string) (*Expense, error) {
	expense, ok := r.expenses[id]
	if !ok || expense.WeddingID != weddingID {
		return nil, ErrExpenseNotFound
	}
	delete(r.expenses, id)
	return expense, nil
}

func (r *fakeRepo) SumByCategory(ctx context.Context, weddingID string) ([]StatusTotal, error) {
	type key struct {
		category string
		status   Status
	}
	sums := make(map[key]float64)
	for _, expense := range r.expenses {
		if expense.WeddingID != weddingID {
			continue
		}
		k := key{status: expense.Status}
		if expense.CategoryID != nil {
			k.category = *expense.CategoryID
		}
		sums[k] += expense.Amount
	}

	result := make([]StatusTotal, 0, len(sums))
	for k, total := range sums {
		item := StatusTotal{Status: k.status, Total: total}
		if k.category != "" {
			id := k.category
			item.CategoryID = &id
		}
		result = append(result, item)
	}
	return result, nil
}

func strPtr(value string) *string {
	return &value
}

func TestCreateExpenseDefaults(t *testing.T) {
	repo := newFakeRepo()
	hub := realtime.NewHub(8)
	sub, _ := hub.Subscribe(context.Background(), realtime.Filter{Table: ExpensesTable})
	service := NewService(repo, realtime.NewBroadcaster(hub, nil))

	due := time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC)
	expense, err := service.CreateExpense(context.Background(), CreateExpenseInput{
		WeddingID: "w1",
		Name:      "  Venue deposit ",
		Amount:    99.999,
		DueDate:   &due,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expense.Status != StatusPending || expense.PaidAt != nil {
		t.Fatalf("expected pending expense, got %+v", expense)
	}
	if expense.Name != "Venue deposit" || expense.Amount != 100 {
		t.Fatalf("unexpected normalization: %+v", expense)
	}
	if expense.DueDate.Hour() != 0 {
		t.Fatalf("expected date-only due date, got %v", expense.DueDate)
	}

	select {
	case env := <-sub.Events():
		if env.Type != realtime.KindInsert || env.WeddingID != "w1" {
			t.Fatalf("unexpected envelope: %+v", env)
		}
	default:
		t.Fatalf("expected insert envelope")
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	service := NewService(newFakeRepo(), nil)

	cases := []struct {
		input CreateExpenseInput
		want  error
	}{
		{CreateExpenseInput{WeddingID: "w1", Name: " "}, ErrNameRequired},
		{CreateExpenseInput{WeddingID: "w1", Name: "Cake", Amount: -1}, ErrInvalidAmount},
		{CreateExpenseInput{WeddingID: "w1", Name: "Cake", Status: "lost"}, ErrInvalidStatus},
		{CreateExpenseInput{WeddingID: "w1", Name: "Cake", CategoryID: strPtr("missing")}, ErrCategoryNotFound},
	}
	for _, tc := range cases {
		if _, err := service.CreateExpense(context.Background(), tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("input %+v: expected %v, got %v", tc.input, tc.want, err)
		}
	}
}

func TestUpdateExpenseTracksPaidAt(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, nil)

	expense, err := service.CreateExpense(context.Background(), CreateExpenseInput{WeddingID: "w1", Name: "Band", Amount: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paid, err := service.UpdateExpense(context.Background(), UpdateExpenseInput{
		ID: expense.ID, WeddingID: "w1", Name: "Band", Amount: 500, Status: StatusPaid,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid.PaidAt == nil {
		t.Fatalf("expected paid_at to be set")
	}

	reopened, err := service.UpdateExpense(context.Background(), UpdateExpenseInput{
		ID: expense.ID, WeddingID: "w1", Name: "Band", Amount: 500, Status: StatusPending,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reopened.PaidAt != nil {
		t.Fatalf("expected paid_at to be cleared")
	}
}

func TestUpdateMissingExpense(t *testing.T) {
	service := NewService(newFakeRepo(), nil)

	_, err := service.UpdateExpense(context.Background(), UpdateExpenseInput{ID: "x", WeddingID: "w1", Name: "Band"})
	if !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestCategoryNameTaken(t *testing.T) {
	service := NewService(newFakeRepo(), nil)

	if _, err := service.CreateCategory(context.Background(), CreateCategoryInput{WeddingID: "w1", Name: "Venue", Allocated: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := service.CreateCategory(context.Background(), CreateCategoryInput{WeddingID: "w1", Name: " Venue ", Allocated: 10})
	if !errors.Is(err, ErrCategoryNameTaken) {
		t.Fatalf("expected ErrCategoryNameTaken, got %v", err)
	}
}

func TestReport(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, nil)
	ctx := context.Background()

	venue, _ := service.CreateCategory(ctx, CreateCategoryInput{WeddingID: "w1", Name: "Venue", Allocated: 5000})
	flowers, _ := service.CreateCategory(ctx, CreateCategoryInput{WeddingID: "w1", Name: "Flowers", Allocated: 800})

	inputs := []CreateExpenseInput{
		{WeddingID: "w1", CategoryID: &venue.ID, Name: "Deposit", Amount: 2000, Status: StatusPaid},
		{WeddingID: "w1", CategoryID: &venue.ID, Name: "Balance", Amount: 2500},
		{WeddingID: "w1", CategoryID: &flowers.ID, Name: "Bouquet", Amount: 300, Status: StatusCancelled},
		{WeddingID: "w1", Name: "Rings", Amount: 900, Status: StatusPaid},
		{WeddingID: "w2", Name: "Other wedding", Amount: 99, Status: StatusPaid},
	}
	for _, input := range inputs {
		if _, err := service.CreateExpense(ctx, input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	report, err := service.Report(ctx, "w1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := make(map[string]Line)
	for _, line := range report.Lines {
		lines[line.Name] = line
	}
	if got := lines["Venue"]; got.Spent != 2000 || got.Pending != 2500 || got.Remaining != 500 {
		t.Fatalf("unexpected venue line: %+v", got)
	}
	if got := lines["Flowers"]; got.Cancelled != 300 || got.Remaining != 800 {
		t.Fatalf("unexpected flowers line: %+v", got)
	}
	if report.Uncategorized.Spent != 900 || report.Uncategorized.Remaining != -900 {
		t.Fatalf("unexpected uncategorized line: %+v", report.Uncategorized)
	}
	if report.Total.Allocated != 5800 || report.Total.Spent != 2900 || report.Total.Pending != 2500 || report.Total.Remaining != 400 {
		t.Fatalf("unexpected total: %+v", report.Total)
	}
}

func TestDeleteCategoryKeepsExpenses(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, nil)
	ctx := context.Background()

	category, _ := service.CreateCategory(ctx, CreateCategoryInput{WeddingID: "w1", Name: "Music", Allocated: 100})
	expense, _ := service.CreateExpense(ctx, CreateExpenseInput{WeddingID: "w1", CategoryID: &category.ID, Name: "DJ", Amount: 50})

	if err := service.DeleteCategory(ctx, "w1", category.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kept, err := service.GetExpense(ctx, "w1", expense.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept.CategoryID != nil {
		t.Fatalf("expected uncategorized expense")
	}
	if err := service.DeleteCategory(ctx, "w1", category.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}
