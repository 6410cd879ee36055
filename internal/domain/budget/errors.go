package budget

import "errors"

var (
	ErrCategoryNotFound  = errors.New("budget category not found")
	ErrCategoryNameTaken = errors.New("budget category name already exists")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrNameRequired      = errors.New("name is required")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrInvalidStatus     = errors.New("invalid expense status")
)
