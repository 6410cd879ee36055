package guests

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	guestsdomain "wedding-app-go/internal/domain/guests"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type guestRequest struct {
	Name                string `json:"name" validate:"required,max=200"`
	Email               string `json:"email" validate:"omitempty,email"`
	Phone               string `json:"phone" validate:"max=40"`
	RSVPStatus          string `json:"rsvp_status" validate:"omitempty,oneof=pending confirmed declined"`
	PlusOne             bool   `json:"plus_one"`
	DietaryRestrictions string `json:"dietary_restrictions" validate:"max=500"`
	Category            string `json:"category" validate:"max=100"`
}

type respondRequest struct {
	Status              string  `json:"status" validate:"required,oneof=confirmed declined"`
	PlusOne             *bool   `json:"plus_one"`
	DietaryRestrictions *string `json:"dietary_restrictions" validate:"omitempty,max=500"`
}

// publicGuestResponse is what an invitee sees through the rsvp link.
type publicGuestResponse struct {
	Name                string                  `json:"name"`
	RSVPStatus          guestsdomain.RSVPStatus `json:"rsvp_status"`
	PlusOne             bool                    `json:"plus_one"`
	DietaryRestrictions string                  `json:"dietary_restrictions"`
}

type guestListResponse struct {
	Items []guestsdomain.Guest `json:"items"`
	Total int                  `json:"total"`
}

var guestErrors = []commonhandler.ErrorMapping{
	{Err: guestsdomain.ErrGuestNotFound, Status: http.StatusNotFound, Code: "guest_not_found"},
	{Err: guestsdomain.ErrInvalidToken, Status: http.StatusNotFound, Code: "invalid_token"},
	{Err: guestsdomain.ErrNameRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: guestsdomain.ErrInvalidRSVPStatus, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: guestsdomain.ErrNoContact, Status: http.StatusUnprocessableEntity, Code: "guest_no_contact"},
	{Err: guestsdomain.ErrNotifierDisabled, Status: http.StatusServiceUnavailable, Code: "notifications_disabled"},
}

func (h *Handlers) ListGuests(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := guestsdomain.ListFilter{
		Status:   guestsdomain.RSVPStatus(strings.TrimSpace(query.Get("rsvp_status"))),
		Category: strings.TrimSpace(query.Get("category")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid rsvp_status")
		return
	}

	items, err := h.Guests.List(r.Context(), wedding.ID, filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "guests.list: list guests failed", err, guestErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusOK, guestListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) GetGuest(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	guest, err := h.Guests.Get(r.Context(), wedding.ID, id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "guests.get: get guest failed", err, guestErrors, "wedding_id", wedding.ID, "guest_id", id)
		return
	}
	writeJSON(w, http.StatusOK, guest)
}

func (h *Handlers) CreateGuest(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req guestRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	guest, err := h.Guests.Create(r.Context(), guestsdomain.CreateInput{
		WeddingID:           wedding.ID,
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		PlusOne:             req.PlusOne,
		DietaryRestrictions: req.DietaryRestrictions,
		Category:            req.Category,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "guests.create: create guest failed", err, guestErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusCreated, guest)
}

func (h *Handlers) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	var req guestRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	guest, err := h.Guests.Update(r.Context(), guestsdomain.UpdateInput{
		ID:                  id,
		WeddingID:           wedding.ID,
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		RSVPStatus:          guestsdomain.RSVPStatus(req.RSVPStatus),
		PlusOne:             req.PlusOne,
		DietaryRestrictions: req.DietaryRestrictions,
		Category:            req.Category,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "guests.update: update guest failed", err, guestErrors, "wedding_id", wedding.ID, "guest_id", id)
		return
	}
	writeJSON(w, http.StatusOK, guest)
}

func (h *Handlers) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Guests.Delete(r.Context(), wedding.ID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "guests.delete: delete guest failed", err, guestErrors, "wedding_id", wedding.ID, "guest_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) InviteGuest(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	err := h.Guests.Invite(r.Context(), guestsdomain.InviteInput{
		WeddingID:    wedding.ID,
		WeddingTitle: wedding.Title,
		WeddingDate:  wedding.Date,
		GuestID:      id,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "guests.invite: send invitation failed", err, guestErrors, "wedding_id", wedding.ID, "guest_id", id)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	summary, err := h.Guests.Summary(r.Context(), wedding.ID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "guests.summary: count guests failed", err, guestErrors, "wedding_id", wedding.ID)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) GetRSVP(w http.ResponseWriter, r *http.Request) {
	guest, err := h.Guests.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "guests.rsvp_get: lookup failed", err, guestErrors)
		return
	}
	writeJSON(w, http.StatusOK, publicGuest(*guest))
}

func (h *Handlers) RespondRSVP(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	guest, err := h.Guests.RespondByToken(r.Context(), guestsdomain.RespondInput{
		Token:               chi.URLParam(r, "token"),
		Status:              guestsdomain.RSVPStatus(req.Status),
		PlusOne:             req.PlusOne,
		DietaryRestrictions: req.DietaryRestrictions,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "guests.rsvp_respond: respond failed", err, guestErrors)
		return
	}
	writeJSON(w, http.StatusOK, publicGuest(*guest))
}

func publicGuest(guest guestsdomain.Guest) publicGuestResponse {
	return publicGuestResponse{
		Name:                guest.Name,
		RSVPStatus:          guest.RSVPStatus,
		PlusOne:             guest.PlusOne,
		DietaryRestrictions: guest.DietaryRestrictions,
	}
}
