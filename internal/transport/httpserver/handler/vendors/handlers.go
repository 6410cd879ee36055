package vendors

import (
	"net/http"

	vendorsdomain "wedding-app-go/internal/domain/vendors"
	"wedding-app-go/internal/notify"
	"wedding-app-go/internal/storage"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
	"wedding-app-go/pkg/logger"
)

type Handlers struct {
	Vendors        *vendorsdomain.Service
	MaxUploadBytes int64
	log            logger.Logger
}

func New(vendors *vendorsdomain.Service, maxUploadBytes int64, log logger.Logger) *Handlers {
	return &Handlers{
		Vendors:        vendors,
		MaxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

var vendorErrors = []commonhandler.ErrorMapping{
	{Err: vendorsdomain.ErrVendorNotFound, Status: http.StatusNotFound, Code: "vendor_not_found"},
	{Err: vendorsdomain.ErrAppointmentNotFound, Status: http.StatusNotFound, Code: "appointment_not_found"},
	{Err: vendorsdomain.ErrContractNotFound, Status: http.StatusNotFound, Code: "contract_not_found"},
	{Err: vendorsdomain.ErrPaymentNotFound, Status: http.StatusNotFound, Code: "payment_not_found"},
	{Err: vendorsdomain.ErrReviewNotFound, Status: http.StatusNotFound, Code: "review_not_found"},
	{Err: vendorsdomain.ErrVoteNotFound, Status: http.StatusNotFound, Code: "vote_not_found"},
	{Err: vendorsdomain.ErrOwnReview, Status: http.StatusForbidden, Code: "own_review"},
	{Err: vendorsdomain.ErrPaymentNotPending, Status: http.StatusConflict, Code: "payment_not_pending"},
	{Err: vendorsdomain.ErrNameRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: vendorsdomain.ErrTitleRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: vendorsdomain.ErrStartRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: vendorsdomain.ErrInvalidAmount, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: vendorsdomain.ErrInvalidStatus, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: vendorsdomain.ErrInvalidRating, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: vendorsdomain.ErrFileRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: vendorsdomain.ErrRecipientRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: vendorsdomain.ErrStorageDisabled, Status: http.StatusServiceUnavailable, Code: "storage_disabled"},
	{Err: vendorsdomain.ErrNotifierDisabled, Status: http.StatusServiceUnavailable, Code: "notifications_disabled"},
	{Err: storage.ErrTooLarge, Status: http.StatusRequestEntityTooLarge, Code: "file_too_large"},
	{Err: notify.ErrNoChannel, Status: http.StatusUnprocessableEntity, Code: "recipient_unreachable"},
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}
