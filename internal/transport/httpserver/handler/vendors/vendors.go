package vendors

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	vendorsdomain "wedding-app-go/internal/domain/vendors"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type vendorRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"max=40"`
	Website  string `json:"website" validate:"omitempty,url"`
	Notes    string `json:"notes" validate:"max=2000"`
}

func (req vendorRequest) input(id, weddingID string) vendorsdomain.VendorInput {
	return vendorsdomain.VendorInput{
		ID:        id,
		WeddingID: weddingID,
		Name:      req.Name,
		Category:  req.Category,
		Email:     req.Email,
		Phone:     req.Phone,
		Website:   req.Website,
		Notes:     req.Notes,
	}
}

func (h *Handlers) ListVendors(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	vendors, err := h.Vendors.ListVendors(r.Context(), wedding.ID, category)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.list: list vendors failed", err, vendorErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *Handlers) GetVendor(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "vendorID")
	vendor, err := h.Vendors.GetVendor(r.Context(), wedding.ID, id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.get: get vendor failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", id)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (h *Handlers) CreateVendor(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req vendorRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	vendor, err := h.Vendors.CreateVendor(r.Context(), req.input("", wedding.ID))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.create: create vendor failed", err, vendorErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func (h *Handlers) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req vendorRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "vendorID")
	vendor, err := h.Vendors.UpdateVendor(r.Context(), req.input(id, wedding.ID))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.update: update vendor failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", id)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (h *Handlers) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "vendorID")
	if err := h.Vendors.DeleteVendor(r.Context(), wedding.ID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.delete: delete vendor failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
