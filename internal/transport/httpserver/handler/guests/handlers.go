package guests

import (
	guestsdomain "wedding-app-go/internal/domain/guests"
	"wedding-app-go/pkg/logger"
)

type Handlers struct {
	Guests *guestsdomain.Service
	log    logger.Logger
}

func New(guests *guestsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Guests: guests,
		log:    log,
	}
}
