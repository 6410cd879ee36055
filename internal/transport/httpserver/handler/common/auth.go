package common

import (
	"errors"
	"net/http"

	weddingdomain "wedding-app-go/internal/domain/wedding"
	"wedding-app-go/internal/transport/httpserver/middleware"
)

// authMeResponse tells the app who is signed in and whether onboarding
// (creating the wedding) is still pending.
type authMeResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL string  `json:"avatar_url"`
	WeddingID *string `json:"wedding_id"`
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	resp := authMeResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}

	wedding, err := h.Weddings.GetByOwner(r.Context(), user.ID)
	switch {
	case err == nil:
		resp.WeddingID = &wedding.ID
	case errors.Is(err, weddingdomain.ErrWeddingNotFound):
	default:
		WriteServiceError(w, h.log, "auth.me: lookup wedding failed", err, weddingErrors, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
