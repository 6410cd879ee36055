package vendors

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	vendorsdomain "wedding-app-go/internal/domain/vendors"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type appointmentRequest struct {
	Title    string    `json:"title" validate:"required,max=200"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	Location string    `json:"location" validate:"max=300"`
	Notes    string    `json:"notes" validate:"max=2000"`
}

func (h *Handlers) ListAppointments(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	vendorID := chi.URLParam(r, "vendorID")
	items, err := h.Vendors.ListAppointments(r.Context(), wedding.ID, vendorID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.list_appointments: list appointments failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", vendorID)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req appointmentRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	vendorID := chi.URLParam(r, "vendorID")
	item, err := h.Vendors.CreateAppointment(r.Context(), vendorsdomain.AppointmentInput{
		WeddingID: wedding.ID,
		VendorID:  vendorID,
		Title:     req.Title,
		StartsAt:  req.StartsAt,
		Location:  req.Location,
		Notes:     req.Notes,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.create_appointment: create appointment failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", vendorID)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handlers) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req appointmentRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	item, err := h.Vendors.UpdateAppointment(r.Context(), vendorsdomain.AppointmentInput{
		ID:        id,
		WeddingID: wedding.ID,
		Title:     req.Title,
		StartsAt:  req.StartsAt,
		Location:  req.Location,
		Notes:     req.Notes,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.update_appointment: update appointment failed", err, vendorErrors, "wedding_id", wedding.ID, "appointment_id", id)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handlers) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Vendors.DeleteAppointment(r.Context(), wedding.ID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.delete_appointment: delete appointment failed", err, vendorErrors, "wedding_id", wedding.ID, "appointment_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
