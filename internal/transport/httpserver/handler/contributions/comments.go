package contributions

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	contributionsdomain "wedding-app-go/internal/domain/contributions"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
)

type commentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.plannerScope(w, r); ok {
		h.listComments(w, r, s)
	}
}

func (h *Handlers) GuestListComments(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.guestScope(w, r); ok {
		h.listComments(w, r, s)
	}
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.plannerScope(w, r); ok {
		h.addComment(w, r, s)
	}
}

func (h *Handlers) GuestAddComment(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.guestScope(w, r); ok {
		h.addComment(w, r, s)
	}
}

func (h *Handlers) listComments(w http.ResponseWriter, r *http.Request, s scope) {
	photoID := chi.URLParam(r, "photoID")
	comments, err := h.Contributions.ListComments(r.Context(), s.weddingID, photoID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.list_comments: list comments failed", err, contributionErrors, "wedding_id", s.weddingID, "photo_id", photoID)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handlers) addComment(w http.ResponseWriter, r *http.Request, s scope) {
	var req commentRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	photoID := chi.URLParam(r, "photoID")
	comment, err := h.Contributions.AddComment(r.Context(), contributionsdomain.CommentInput{
		WeddingID: s.weddingID,
		PhotoID:   photoID,
		GuestID:   s.guestID,
		Body:      req.Body,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.add_comment: add comment failed", err, contributionErrors, "wedding_id", s.weddingID, "photo_id", photoID)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.plannerScope(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Contributions.DeleteComment(r.Context(), s.weddingID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.delete_comment: delete comment failed", err, contributionErrors, "wedding_id", s.weddingID, "comment_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
