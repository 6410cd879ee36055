package common

import (
	"net/http"

	syncdomain "wedding-app-go/internal/domain/sync"
	weddingdomain "wedding-app-go/internal/domain/wedding"
	"wedding-app-go/internal/transport/httpserver/middleware"
	"wedding-app-go/pkg/logger"
)

type Handlers struct {
	Weddings *weddingdomain.Service
	Sync     *syncdomain.Service
	log      logger.Logger
}

func New(weddings *weddingdomain.Service, sync *syncdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Weddings: weddings,
		Sync:     sync,
		log:      log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type weddingRequest struct {
	Title string  `json:"title" validate:"required,max=200"`
	Date  *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Venue string  `json:"venue" validate:"max=300"`
}

var weddingErrors = []ErrorMapping{
	{Err: weddingdomain.ErrWeddingNotFound, Status: http.StatusNotFound, Code: "wedding_not_found"},
	{Err: weddingdomain.ErrAlreadyHasWedding, Status: http.StatusConflict, Code: "wedding_exists"},
	{Err: weddingdomain.ErrTitleRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
}

func (h *Handlers) GetWedding(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	wedding, err := h.Weddings.GetByOwner(r.Context(), user.ID)
	if err != nil {
		WriteServiceError(w, h.log, "wedding.get: get wedding failed", err, weddingErrors, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, wedding)
}

func (h *Handlers) CreateWedding(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req weddingRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	date, err := ParseDatePtr(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	wedding, err := h.Weddings.Create(r.Context(), weddingdomain.CreateInput{
		OwnerID: user.ID,
		Title:   req.Title,
		Date:    date,
		Venue:   req.Venue,
	})
	if err != nil {
		WriteServiceError(w, h.log, "wedding.create: create wedding failed", err, weddingErrors, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusCreated, wedding)
}

func (h *Handlers) UpdateWedding(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req weddingRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	date, err := ParseDatePtr(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	wedding, err := h.Weddings.Update(r.Context(), weddingdomain.UpdateInput{
		OwnerID: user.ID,
		Title:   req.Title,
		Date:    date,
		Venue:   req.Venue,
	})
	if err != nil {
		WriteServiceError(w, h.log, "wedding.update: update wedding failed", err, weddingErrors, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, wedding)
}

// RequestWedding returns the wedding resolved by middleware.RequireWedding.
func RequestWedding(w http.ResponseWriter, r *http.Request) (*weddingdomain.Wedding, bool) {
	wedding, ok := middleware.WeddingFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "wedding_not_found", "wedding not found")
		return nil, false
	}
	return wedding, true
}
