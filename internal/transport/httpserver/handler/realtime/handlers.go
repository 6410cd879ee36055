package realtime

import (
	"net/http"

	"wedding-app-go/internal/domain/budget"
	"wedding-app-go/internal/domain/contributions"
	"wedding-app-go/internal/domain/guests"
	"wedding-app-go/internal/domain/seating"
	"wedding-app-go/internal/domain/vendors"
	"wedding-app-go/internal/domain/wedding"
	"wedding-app-go/internal/realtime/wsfeed"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
	"wedding-app-go/pkg/logger"
)

// Tables lists what a websocket client may subscribe to.
var Tables = map[string]bool{
	wedding.Table:               true,
	guests.Table:                true,
	seating.TablesTable:         true,
	seating.SeatsTable:          true,
	budget.CategoriesTable:      true,
	budget.ExpensesTable:        true,
	vendors.VendorsTable:        true,
	vendors.AppointmentsTable:   true,
	vendors.ContractsTable:      true,
	vendors.PaymentsTable:       true,
	vendors.ReviewsTable:        true,
	contributions.PhotosTable:   true,
	contributions.CommentsTable: true,
	contributions.SongsTable:    true,
}

type Handlers struct {
	Server *wsfeed.Server
	log    logger.Logger
}

func New(server *wsfeed.Server, log logger.Logger) *Handlers {
	return &Handlers{
		Server: server,
		log:    log,
	}
}

func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	wedding, ok := commonhandler.RequestWedding(w, r)
	if !ok {
		return
	}

	filter, err := wsfeed.ParseFilter(r.URL.Query())
	if err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if !Tables[filter.Table] {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", "unknown table")
		return
	}

	if err := h.Server.Serve(w, r, wedding.ID, filter); err != nil {
		h.log.InternalError("realtime.subscribe: subscribe failed", err, "wedding_id", wedding.ID, "table", filter.Table)
		commonhandler.WriteError(w, http.StatusServiceUnavailable, "realtime_unavailable", "realtime feed unavailable")
	}
}
