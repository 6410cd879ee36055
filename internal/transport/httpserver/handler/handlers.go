package handler

import (
	budgethandler "wedding-app-go/internal/transport/httpserver/handler/budget"
	commonhandler "wedding-app-go/internal/transport/httpserver/handler/common"
	contributionshandler "wedding-app-go/internal/transport/httpserver/handler/contributions"
	guestshandler "wedding-app-go/internal/transport/httpserver/handler/guests"
	realtimehandler "wedding-app-go/internal/transport/httpserver/handler/realtime"
	seatinghandler "wedding-app-go/internal/transport/httpserver/handler/seating"
	vendorshandler "wedding-app-go/internal/transport/httpserver/handler/vendors"
)

type Handlers struct {
	Common        *commonhandler.Handlers
	Guests        *guestshandler.Handlers
	Seating       *seatinghandler.Handlers
	Budget        *budgethandler.Handlers
	Vendors       *vendorshandler.Handlers
	Contributions *contributionshandler.Handlers
	Realtime      *realtimehandler.Handlers
}
