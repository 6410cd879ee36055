package vendors

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	vendorsdomain "wedding-app-go/internal/domain/vendors"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
	"wedding-app-go/internal/transport/httpserver/middleware"
)

type reviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Body   string `json:"body" validate:"max=4000"`
}

type voteRequest struct {
	IsHelpful *bool `json:"is_helpful" validate:"required"`
}

func requestUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return "", false
	}
	return userID, true
}

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	vendorID := chi.URLParam(r, "vendorID")
	items, err := h.Vendors.ListReviews(r.Context(), wedding.ID, vendorID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.list_reviews: list reviews failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", vendorID)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req reviewRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	vendorID := chi.URLParam(r, "vendorID")
	item, err := h.Vendors.CreateReview(r.Context(), vendorsdomain.ReviewInput{
		WeddingID: wedding.ID,
		VendorID:  vendorID,
		UserID:    userID,
		Rating:    req.Rating,
		Body:      req.Body,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.create_review: create review failed", err, vendorErrors, "wedding_id", wedding.ID, "vendor_id", vendorID)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handlers) UpdateReview(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req reviewRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	item, err := h.Vendors.UpdateReview(r.Context(), vendorsdomain.ReviewInput{
		ID:        id,
		WeddingID: wedding.ID,
		UserID:    userID,
		Rating:    req.Rating,
		Body:      req.Body,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.update_review: update review failed", err, vendorErrors, "wedding_id", wedding.ID, "review_id", id)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Vendors.DeleteReview(r.Context(), wedding.ID, id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.delete_review: delete review failed", err, vendorErrors, "wedding_id", wedding.ID, "review_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Vote(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req voteRequest
	if !commonhandler.DecodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	review, err := h.Vendors.Vote(r.Context(), vendorsdomain.VoteInput{
		WeddingID: wedding.ID,
		ReviewID:  id,
		UserID:    userID,
		IsHelpful: *req.IsHelpful,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.vote: record vote failed", err, vendorErrors, "wedding_id", wedding.ID, "review_id", id)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handlers) ClearVote(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	review, err := h.Vendors.ClearVote(r.Context(), wedding.ID, id, userID)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "vendors.clear_vote: clear vote failed", err, vendorErrors, "wedding_id", wedding.ID, "review_id", id)
		return
	}
	writeJSON(w, http.StatusOK, review)
}
