package budget

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	budgetdomain "wedding-app-go/internal/domain/budget"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type expenseRequest struct {
	CategoryID *string `json:"category_id" validate:"omitempty,uuid"`
	Name       string  `json:"name" validate:"required,max=200"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	Status     string  `json:"status" validate:"omitempty,oneof=paid pending cancelled"`
	DueDate    *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := budgetdomain.ExpenseFilter{
		CategoryID: strings.TrimSpace(query.Get("category_id")),
		Status:     budgetdomain.Status(strings.TrimSpace(query.Get("status"))),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
		return
	}

	expenses, err := h.Budget.ListExpenses(r.Context(), wedding.ID, filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "budget.list_expenses: list expenses failed", err, budgetErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *Handlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	expense, err := h.Budget.GetExpense(r.Context(), wedding.ID, id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "budget.get_expense: get expense failed", err, budgetErrors, "wedding_id", wedding.ID, "expense_id", id)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req expenseRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}
	dueDate, err := commonhandler.ParseDatePtr(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	expense, err := h.Budget.CreateExpense(r.Context(), budgetdomain.CreateExpenseInput{
		WeddingID:  wedding.ID,
		CategoryID: commonhandler.NormalizeStringPtr(req.CategoryID),
		Name:       req.Name,
		Amount:     req.Amount,
		Status:     budgetdomain.Status(req.Status),
		DueDate:    dueDate,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "budget.create_expense: create expense failed", err, budgetErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req expenseRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}
	dueDate, err := commonhandler.ParseDatePtr(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	expense, err := h.Budget.UpdateExpense(r.Context(), budgetdomain.UpdateExpenseInput{
		ID:         id,
		WeddingID:  wedding.ID,
		CategoryID: commonhandler.NormalizeStringPtr(req.CategoryID),
		Name:       req.Name,
		Amount:     req.Amount,
		Status:     budgetdomain.Status(req.Status),
		DueDate:    dueDate,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "budget.update_expense: update expense failed", err, budgetErrors, "wedding_id", wedding.ID, "expense_id", id)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Budget.DeleteExpense(r.Context(), wedding.ID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "budget.delete_expense: delete expense failed", err, budgetErrors, "wedding_id", wedding.ID, "expense_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
