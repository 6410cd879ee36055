package vendors

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	vendorsdomain "wedding-app-go/internal/domain/vendors"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type paymentRequest struct {
	Amount  float64 `json:"amount" validate:"gte=0"`
	DueDate *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status  string  `json:"status" validate:"omitempty,oneof=paid pending cancelled"`
}

type remindRequest struct {
	To string `json:"to" validate:"required,max=200"`
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	vendorID := chi.URLParam(r, "vendorID")
	items, err := h.Vendors.ListPayments(r.Context(), wedding.ID, vendorID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.list_payments: list payments failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", vendorID)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}
	dueDate, err := commonhandler.ParseDatePtr(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	vendorID := chi.URLParam(r, "vendorID")
	item, err := h.Vendors.CreatePayment(r.Context(), vendorsdomain.PaymentInput{
		WeddingID: wedding.ID,
		VendorID:  vendorID,
		Amount:    req.Amount,
		DueDate:   dueDate,
		Status:    vendorsdomain.PaymentStatus(req.Status),
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.create_payment: create payment failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", vendorID)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handlers) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}
	dueDate, err := commonhandler.ParseDatePtr(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	item, err := h.Vendors.UpdatePayment(r.Context(), vendorsdomain.PaymentInput{
		ID:        id,
		WeddingID: wedding.ID,
		Amount:    req.Amount,
		DueDate:   dueDate,
		Status:    vendorsdomain.PaymentStatus(req.Status),
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.update_payment: update payment failed", err, vendorErrors, "wedding_id", wedding.ID, "payment_id", id)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handlers) DeletePayment(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Vendors.DeletePayment(r.Context(), wedding.ID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.delete_payment: delete payment failed", err, vendorErrors, "wedding_id", wedding.ID, "payment_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemindPayment(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req remindRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Vendors.RemindPayment(r.Context(), wedding.ID, id, req.To); err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.remind_payment: send reminder failed", err, vendorErrors, "wedding_id", wedding.ID, "payment_id", id)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
