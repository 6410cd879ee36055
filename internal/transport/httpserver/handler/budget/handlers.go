package budget

import (
	"net/http"

	budgetdomain "wedding-app-go/internal/domain/budget"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
	"wedding-app-go/pkg/logger"
)

type Handlers struct {
	Budget *budgetdomain.Service
	log    logger.Logger
}

func New(budget *budgetdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Budget: budget,
		log:    log,
	}
}

var budgetErrors = []commonhandler.ErrorMapping{
	{Err: budgetdomain.ErrCategoryNotFound, Status: http.StatusNotFound, Code: "category_not_found"},
	{Err: budgetdomain.ErrExpenseNotFound, Status: http.StatusNotFound, Code: "expense_not_found"},
	{Err: budgetdomain.ErrCategoryNameTaken, Status: http.StatusConflict, Code: "category_name_taken"},
	{Err: budgetdomain.ErrNameRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: budgetdomain.ErrInvalidAmount, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: budgetdomain.ErrInvalidStatus, Status: http.StatusBadRequest, Code: "invalid_request"},
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func (h *Handlers) Report(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	report, err := h.Budget.Report(r.Context(), wedding.ID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "budget.report: build report failed", err, budgetErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
