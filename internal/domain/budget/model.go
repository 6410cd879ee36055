package budget

import "time"

const (
	CategoriesTable = "budget_categories"
	ExpensesTable   = "expenses"
)

type Status string

const (
	StatusPaid      Status = "paid"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusCancelled:
		return true
	}
	return false
}

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID string    `gorm:"type:uuid;index;not null" json:"wedding_id"`
	Name      string    `gorm:"not null" json:"name"`
	Allocated float64   `gorm:"type:numeric(12,2);not null" json:"allocated"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Category) TableName() string {
	return CategoriesTable
}

type Expense struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	WeddingID  string     `gorm:"type:uuid;index;not null" json:"wedding_id"`
	CategoryID *string    `gorm:"type:uuid;index" json:"category_id"`
	Name       string     `gorm:"not null" json:"name"`
	Amount     float64    `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status     Status     `gorm:"not null" json:"status"`
	DueDate    *time.Time `gorm:"type:date" json:"due_date"`
	PaidAt     *time.Time `json:"paid_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Expense) TableName() string {
	return ExpensesTable
}

type ExpenseFilter struct {
	CategoryID string
	Status     Status
}

type CreateCategoryInput struct {
	WeddingID string
	Name      string
	Allocated float64
}

type UpdateCategoryInput struct {
	ID        string
	WeddingID string
	Name      string
	Allocated float64
}

type CreateExpenseInput struct {
	WeddingID  string
	CategoryID *string
	Name       string
	Amount     float64
	Status     Status
	DueDate    *time.Time
}

type UpdateExpenseInput struct {
	ID         string
	WeddingID  string
	CategoryID *string
	Name       string
	Amount     float64
	Status     Status
	DueDate    *time.Time
}

// StatusTotal is one aggregated row: the sum of expense amounts for a
// category (nil for uncategorized) and status.
type StatusTotal struct {
	CategoryID *string
	Status     Status
	Total      float64
}

type Line struct {
	CategoryID *string `json:"category_id"`
	Name       string  `json:"name"`
	Allocated  float64 `json:"allocated"`
	Spent      float64 `json:"spent"`
	Pending    float64 `json:"pending"`
	Cancelled  float64 `json:"cancelled"`
	Remaining  float64 `json:"remaining"`
}

type Report struct {
	Lines         []Line `json:"lines"`
	Uncategorized Line   `json:"uncategorized"`
	Total         Line   `json:"total"`
}
