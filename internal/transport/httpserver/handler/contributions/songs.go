package contributions

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	contributionsdomain "wedding-app-go/internal/domain/contributions"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type songRequest struct {
	Title  string `json:"title" validate:"required,max=200"`
	Artist string `json:"artist" validate:"max=200"`
}

type moderateRequest struct {
	Status string `json:"status" validate:"required,oneof=requested approved rejected"`
}

func (h *Handlers) ListSongs(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.plannerScope(w, r); ok {
		h.listSongs(w, r, s)
	}
}

func (h *Handlers) GuestListSongs(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.guestScope(w, r); ok {
		h.listSongs(w, r, s)
	}
}

func (h *Handlers) RequestSong(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.plannerScope(w, r); ok {
		h.requestSong(w, r, s)
	}
}

func (h *Handlers) GuestRequestSong(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.guestScope(w, r); ok {
		h.requestSong(w, r, s)
	}
}

func (h *Handlers) listSongs(w http.ResponseWriter, r *http.Request, s scope) {
	status := contributionsdomain.SongStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	songs, err := h.Contributions.ListSongs(r.Context(), s.weddingID, status)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.list_songs: list songs failed", err, contributionErrors, "wedding_id", s.weddingID)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *Handlers) requestSong(w http.ResponseWriter, r *http.Request, s scope) {
	var req songRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	song, err := h.Contributions.RequestSong(r.Context(), contributionsdomain.SongInput{
		WeddingID: s.weddingID,
		GuestID:   s.guestID,
		Title:     req.Title,
		Artist:    req.Artist,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.request_song: request song failed", err, contributionErrors, "wedding_id", s.weddingID)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (h *Handlers) ModerateSong(w http.ResponseWriter, r *http.Request) {
	s, ok := h.plannerScope(w, r)
	if !ok {
		return
	}

	var req moderateRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	song, err := h.Contributions.ModerateSong(r.Context(), s.weddingID, id, contributionsdomain.SongStatus(req.Status))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.moderate_song: moderate song failed", err, contributionErrors, "wedding_id", s.weddingID, "song_id", id)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (h *Handlers) DeleteSong(w http.ResponseWriter, r *http.Request) {
	s, ok := h.plannerScope(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Contributions.DeleteSong(r.Context(), s.weddingID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.delete_song: delete song failed", err, contributionErrors, "wedding_id", s.weddingID, "song_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
