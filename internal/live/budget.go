package live

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"wedding-app-go/internal/domain/budget"
	"wedding-app-go/internal/realtime"
)

func Categories(d Deps, w Watch[budget.Category]) *realtime.Mirror[budget.Category] {
	return newMirror(d, w, realtime.Config[budget.Category]{
		Name:        "budget_categories",
		Table:       budget.CategoriesTable,
		ScopeColumn: weddingColumn,
		ScopeKey:    func(c budget.Category) string { return c.WeddingID },
		Options: realtime.Options[budget.Category]{
			ID:        func(c budget.Category) string { return c.ID },
			Placement: realtime.Append,
			Less:      func(a, b budget.Category) bool { return nameBefore(a.Name, b.Name) },
		},
		Fetch: wedding(d.Source.ListCategories),
	})
}

// Expenses mirrors the expense list ordered by due date, undated last.
func Expenses(d Deps, w Watch[budget.Expense]) *realtime.Mirror[budget.Expense] {
	return newMirror(d, w, realtime.Config[budget.Expense]{
		Name:        "expenses",
		Table:       budget.ExpensesTable,
		ScopeColumn: weddingColumn,
		ScopeKey:    func(e budget.Expense) string { return e.WeddingID },
		Options: realtime.Options[budget.Expense]{
			ID:        func(e budget.Expense) string { return e.ID },
			Placement: realtime.Append,
			Less:      func(a, b budget.Expense) bool { return dueBefore(a.DueDate, b.DueDate) },
		},
		Fetch: wedding(d.Source.ListExpenses),
		Notify: func(change realtime.Change[budget.Expense], prev *budget.Expense) (realtime.Toast, bool) {
			if change.Kind != realtime.KindUpdate || change.New == nil || prev == nil {
				return realtime.Toast{}, false
			}
			if prev.Status == change.New.Status || change.New.Status != budget.StatusPaid {
				return realtime.Toast{}, false
			}
			return realtime.Toast{
				Title:   "Expense Paid",
				Message: fmt.Sprintf("%s (%s)", change.New.Name, money(change.New.Amount)),
				Variant: realtime.VariantSuccess,
			}, true
		},
	})
}

func dueBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

func money(amount float64) string {
	return humanize.CommafWithDigits(amount, 2)
}
