package contributions

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	contributionsdomain "wedding-app-go/internal/domain/contributions"
	"wedding-app-go/internal/storage"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
	"wedding-app-go/pkg/logger"
)

// Handlers serve photos, comments and song requests to the planner and,
// through an rsvp token, to guests.
type Handlers struct {
	Contributions  *contributionsdomain.Service
	MaxUploadBytes int64
	log            logger.Logger
}

func New(contributions *contributionsdomain.Service, maxUploadBytes int64, log logger.Logger) *Handlers {
	return &Handlers{
		Contributions:  contributions,
		MaxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

var contributionErrors = []commonhandler.ErrorMapping{
	{Err: contributionsdomain.ErrPhotoNotFound, Status: http.StatusNotFound, Code: "photo_not_found"},
	{Err: contributionsdomain.ErrCommentNotFound, Status: http.StatusNotFound, Code: "comment_not_found"},
	{Err: contributionsdomain.ErrSongNotFound, Status: http.StatusNotFound, Code: "song_not_found"},
	{Err: contributionsdomain.ErrGuestNotFound, Status: http.StatusNotFound, Code: "guest_not_found"},
	{Err: contributionsdomain.ErrInvalidToken, Status: http.StatusNotFound, Code: "invalid_token"},
	{Err: contributionsdomain.ErrGuestNotInWedding, Status: http.StatusForbidden, Code: "guest_not_in_wedding"},
	{Err: contributionsdomain.ErrFileRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: contributionsdomain.ErrBodyRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: contributionsdomain.ErrTitleRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: contributionsdomain.ErrInvalidSongStatus, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: contributionsdomain.ErrCaptionTooLong, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: contributionsdomain.ErrUnsupportedType, Status: http.StatusUnsupportedMediaType, Code: "unsupported_media_type"},
	{Err: contributionsdomain.ErrStorageDisabled, Status: http.StatusServiceUnavailable, Code: "storage_disabled"},
	{Err: storage.ErrTooLarge, Status: http.StatusRequestEntityTooLarge, Code: "file_too_large"},
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

// scope is who a contribution request acts for: the planner's wedding, or
// one guest reached through an rsvp token.
type scope struct {
	weddingID string
	guestID   *string
}

func (h *Handlers) plannerScope(w http.ResponseWriter, r *http.Request) (scope, bool) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return scope{}, false
	}
	return scope{weddingID: wedding.ID}, true
}

func (h *Handlers) guestScope(w http.ResponseWriter, r *http.Request) (scope, bool) {
	guest, err := h.Contributions.Guest(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "contributions.token: resolve guest failed", err, contributionErrors)
		return scope{}, false
	}
	guestID := guest.ID
	return scope{weddingID: guest.WeddingID, guestID: &guestID}, true
}
