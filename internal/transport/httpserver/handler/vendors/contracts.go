package vendors

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	vendorsdomain "wedding-app-go/internal/domain/vendors"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type contractRequest struct {
	Title    string     `json:"title" validate:"required,max=200"`
	Amount   float64    `json:"amount" validate:"gte=0"`
	SignedAt *time.Time `json:"signed_at"`
}

func (h *Handlers) ListContracts(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	vendorID := chi.URLParam(r, "vendorID")
	items, err := h.Vendors.ListContracts(r.Context(), wedding.ID, vendorID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.list_contracts: list contracts failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", vendorID)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) CreateContract(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req contractRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	vendorID := chi.URLParam(r, "vendorID")
	item, err := h.Vendors.CreateContract(r.Context(), vendorsdomain.ContractInput{
		WeddingID: wedding.ID,
		VendorID:  vendorID,
		Title:     req.Title,
		Amount:    req.Amount,
		SignedAt:  req.SignedAt,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.create_contract: create contract failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", vendorID)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handlers) UpdateContract(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req contractRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	item, err := h.Vendors.UpdateContract(r.Context(), vendorsdomain.ContractInput{
		ID:        id,
		WeddingID: wedding.ID,
		Title:     req.Title,
		Amount:    req.Amount,
		SignedAt:  req.SignedAt,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.update_contract: update contract failed", err, vendorErrors, "wedding_id", wedding.ID, "contract_id", id)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handlers) UploadContractFile(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	upload, ok := commonhandler.ReadUpload(w, r, "file", h.MaxUploadBytes)
	if !ok {
		return
	}
	defer upload.File.Close()

	id := chi.URLParam(r, "id")
	item, err := h.Vendors.UploadContractFile(r.Context(), vendorsdomain.UploadInput{
		WeddingID:   wedding.ID,
		ContractID:  id,
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Body:        upload.File,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.upload_contract: upload contract file failed", err, vendorErrors, "wedding_id", wedding.ID, "contract_id", id)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handlers) DeleteContract(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Vendors.DeleteContract(r.Context(), wedding.ID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.delete_contract: delete contract failed", err, vendorErrors, "wedding_id", wedding.ID, "contract_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
