package middleware

import (
	"context"
	"errors"
	"net/http"

	weddingdomain "wedding-app-go/internal/domain/wedding"
	"wedding-app-go/pkg/logger"
)

type WeddingResolver interface {
	GetByOwner(ctx context.Context, ownerID string) (*weddingdomain.Wedding, error)
}

// RequireWedding resolves the authenticated user's wedding and stores it in
// the request context. It must run after the auth middleware.
func RequireWedding(resolver WeddingResolver, log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.Component("auth.wedding")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}

			wedding, err := resolver.GetByOwner(r.Context(), user.ID)
			if err != nil {
				if errors.Is(err, weddingdomain.ErrWeddingNotFound) {
					writeError(w, http.StatusNotFound, "wedding_not_found", "create a wedding first")
					return
				}
				log.InternalError("wedding.resolve: get wedding failed", err, "user_id", user.ID)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWedding(r.Context(), wedding)))
		})
	}
}

func WithWedding(ctx context.Context, wedding *weddingdomain.Wedding) context.Context {
	return context.WithValue(ctx, weddingKey, wedding)
}

func WeddingFromContext(ctx context.Context) (*weddingdomain.Wedding, bool) {
	wedding, ok := ctx.Value(weddingKey).(*weddingdomain.Wedding)
	return wedding, ok && wedding != nil
}
