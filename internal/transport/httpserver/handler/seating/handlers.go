package seating

import (
	"net/http"

	seatingdomain "wedding-app-go/internal/domain/seating"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
	"wedding-app-go/pkg/logger"
)

type Handlers struct {
	Seating *seatingdomain.Service
	log     logger.Logger
}

func New(seating *seatingdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Seating: seating,
		log:     log,
	}
}

var seatingErrors = []commonhandler.ErrorMapping{
	{Err: seatingdomain.ErrTableNotFound, Status: http.StatusNotFound, Code: "table_not_found"},
	{Err: seatingdomain.ErrSeatNotFound, Status: http.StatusNotFound, Code: "seat_not_found"},
	{Err: seatingdomain.ErrGuestNotFound, Status: http.StatusNotFound, Code: "guest_not_found"},
	{Err: seatingdomain.ErrSeatOccupied, Status: http.StatusConflict, Code: "seat_occupied"},
	{Err: seatingdomain.ErrGuestAlreadySeated, Status: http.StatusConflict, Code: "guest_already_seated"},
	{Err: seatingdomain.ErrTableFull, Status: http.StatusConflict, Code: "table_full"},
	{Err: seatingdomain.ErrSeatNumberTaken, Status: http.StatusConflict, Code: "seat_number_taken"},
	{Err: seatingdomain.ErrCapacityBelowUsage, Status: http.StatusConflict, Code: "capacity_below_usage"},
	{Err: seatingdomain.ErrNameRequired, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: seatingdomain.ErrInvalidCapacity, Status: http.StatusBadRequest, Code: "invalid_request"},
	{Err: seatingdomain.ErrInvalidShape, Status: http.StatusBadRequest, Code: "invalid_request"},
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}
