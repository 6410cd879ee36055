package contributions

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	contributionsdomain "wedding-app-go/internal/domain/contributions"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type captionRequest struct {
	Caption string `json:"caption" validate:"max=500"`
}

func (h *Handlers) ListPhotos(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.plannerScope(w, r); ok {
		h.listPhotos(w, r, s)
	}
}

func (h *Handlers) GuestListPhotos(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.guestScope(w, r); ok {
		h.listPhotos(w, r, s)
	}
}

func (h *Handlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.plannerScope(w, r); ok {
		h.uploadPhoto(w, r, s)
	}
}

func (h *Handlers) GuestUploadPhoto(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.guestScope(w, r); ok {
		h.uploadPhoto(w, r, s)
	}
}

func (h *Handlers) listPhotos(w http.ResponseWriter, r *http.Request, s scope) {
	photos, err := h.Contributions.ListPhotos(r.Context(), s.weddingID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.list_photos: list photos failed", err, contributionErrors, "wedding_id", s.weddingID)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (h *Handlers) uploadPhoto(w http.ResponseWriter, r *http.Request, s scope) {
	upload, ok := commonhandler.ReadUpload(w, r, "file", h.MaxUploadBytes)
	if !ok {
		return
	}
	defer upload.File.Close()

	photo, err := h.Contributions.UploadPhoto(r.Context(), contributionsdomain.PhotoInput{
		WeddingID:   s.weddingID,
		GuestID:     s.guestID,
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Body:        upload.File,
		Caption:     upload.Fields["caption"],
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.upload_photo: upload photo failed", err, contributionErrors, "wedding_id", s.weddingID)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

func (h *Handlers) UpdateCaption(w http.ResponseWriter, r *http.Request) {
	s, ok := h.plannerScope(w, r)
	if !ok {
		return
	}

	var req captionRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "photoID")
	photo, err := h.Contributions.UpdateCaption(r.Context(), s.weddingID, id, req.Caption)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.update_caption: update caption failed", err, contributionErrors, "wedding_id", s.weddingID, "photo_id", id)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *Handlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	s, ok := h.plannerScope(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "photoID")
	if err := h.Contributions.DeletePhoto(r.Context(), s.weddingID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.delete_photo: delete photo failed", err, contributionErrors, "wedding_id", s.weddingID, "photo_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
