package seating

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	seatingdomain "wedding-app-go/internal/domain/seating"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type assignRequest struct {
	GuestID string `json:"guest_id" validate:"required,uuid"`
}

func (h *Handlers) ListSeats(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	tableID := chi.URLParam(r, "id")
	seats, err := h.Seating.ListSeats(r.Context(), wedding.ID, tableID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.list_seats: list seats failed", err, seatingErrors, "wedding_id", wedding.ID, "table_id", tableID)
		return
	}
	writeJSON(w, http.StatusOK, seats)
}

func (h *Handlers) AddSeat(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	tableID := chi.URLParam(r, "id")
	seat, err := h.Seating.AddSeat(r.Context(), wedding.ID, tableID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.add_seat: add seat failed", err, seatingErrors, "wedding_id", wedding.ID, "table_id", tableID)
		return
	}
	writeJSON(w, http.StatusCreated, seat)
}

func (h *Handlers) DeleteSeat(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "seatID")
	if err := h.Seating.DeleteSeat(r.Context(), wedding.ID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.delete_seat: delete seat failed", err, seatingErrors, "wedding_id", wedding.ID, "seat_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AssignGuest(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req assignRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	seatID := chi.URLParam(r, "seatID")
	seat, err := h.Seating.AssignGuest(r.Context(), seatingdomain.AssignInput{
		WeddingID: wedding.ID,
		SeatID:    seatID,
		GuestID:   req.GuestID,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.assign: assign guest failed", err, seatingErrors,
			"wedding_id", wedding.ID, "seat_id", seatID, "guest_id", req.GuestID)
		return
	}
	writeJSON(w, http.StatusOK, seat)
}

func (h *Handlers) UnassignSeat(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	seatID := chi.URLParam(r, "seatID")
	seat, err := h.Seating.UnassignSeat(r.Context(), wedding.ID, seatID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "seating.unassign: unassign seat failed", err, seatingErrors, "wedding_id", wedding.ID, "seat_id", seatID)
		return
	}
	writeJSON(w, http.StatusOK, seat)
}
