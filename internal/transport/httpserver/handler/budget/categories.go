package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	budgetdomain "wedding-app-go/internal/domain/budget"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type categoryRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	Allocated float64 `json:"allocated" validate:"gte=0"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	categories, err := h.Budget.ListCategories(r.Context(), wedding.ID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "budget.list_categories: list categories failed", err, budgetErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.Budget.CreateCategory(r.Context(), budgetdomain.CreateCategoryInput{
		WeddingID: wedding.ID,
		Name:      req.Name,
		Allocated: req.Allocated,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "budget.create_category: create category failed", err, budgetErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	category, err := h.Budget.UpdateCategory(r.Context(), budgetdomain.UpdateCategoryInput{
		ID:        id,
		WeddingID: wedding.ID,
		Name:      req.Name,
		Allocated: req.Allocated,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "budget.update_category: update category failed", err, budgetErrors, "wedding_id", wedding.ID, "category_id", id)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Budget.DeleteCategory(r.Context(), wedding.ID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "budget.delete_category: delete category failed", err, budgetErrors, "wedding_id", wedding.ID, "category_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
