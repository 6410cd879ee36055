package guests

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"wedding-app-go/internal/realtime"
	"wedding-app-go/pkg/logger"
)

type Service struct {
	repo        Repository
	events      *realtime.Broadcaster
	notifier    Notifier
	rsvpBaseURL string
	log         logger.Logger
}

func NewService(repo Repository, events *realtime.Broadcaster, notifier Notifier, rsvpBaseURL string, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:        repo,
		events:      events,
		notifier:    notifier,
		rsvpBaseURL: strings.TrimRight(rsvpBaseURL, "/"),
		log:         log.Component("guests"),
	}
}

func (s *Service) List(ctx context.Context, weddingID string, filter ListFilter) ([]Guest, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidRSVPStatus
	}
	guests, err := s.repo.List(ctx, weddingID, filter)
	if err != nil {
		return nil, err
	}
	if guests == nil {
		guests = []Guest{}
	}
	return guests, nil
}

func (s *Service) Get(ctx context.Context, weddingID, id string) (*Guest, error) {
	return s.repo.Get(ctx, weddingID, id)
}

func (s *Service) GetByToken(ctx context.Context, token string) (*Guest, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	return s.repo.GetByToken(ctx, token)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Guest, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	guest := Guest{
		ID:                  uuid.NewString(),
		WeddingID:           input.WeddingID,
		Name:                name,
		Email:               strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:               strings.TrimSpace(input.Phone),
		RSVPStatus:          RSVPPending,
		PlusOne:             input.PlusOne,
		DietaryRestrictions: strings.TrimSpace(input.DietaryRestrictions),
		Category:            strings.TrimSpace(input.Category),
		RSVPToken:           uuid.NewString(),
	}
	if err := s.repo.Create(ctx, &guest); err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, Table, guest.WeddingID, guest)
	return &guest, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Guest, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !input.RSVPStatus.Valid() {
		return nil, ErrInvalidRSVPStatus
	}

	guest, err := s.repo.Get(ctx, input.WeddingID, input.ID)
	if err != nil {
		return nil, err
	}
	old := *guest

	guest.Name = name
	guest.Email = strings.ToLower(strings.TrimSpace(input.Email))
	guest.Phone = strings.TrimSpace(input.Phone)
	guest.PlusOne = input.PlusOne
	guest.DietaryRestrictions = strings.TrimSpace(input.DietaryRestrictions)
	guest.Category = strings.TrimSpace(input.Category)
	if guest.RSVPStatus != input.RSVPStatus {
		guest.RSVPStatus = input.RSVPStatus
		now := time.Now().UTC()
		guest.RespondedAt = &now
	}
	guest.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, guest); err != nil {
		return nil, err
	}

	s.events.Updated(ctx, Table, guest.WeddingID, guest, old)
	return guest, nil
}

func (s *Service) Delete(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.Delete(ctx, weddingID, id)
	if err != nil {
		return err
	}

	s.events.Deleted(ctx, Table, weddingID, deleted)
	return nil
}

// RespondByToken is the guest self-service RSVP. The token identifies both
// the guest and the wedding.
func (s *Service) RespondByToken(ctx context.Context, input RespondInput) (*Guest, error) {
	if input.Status != RSVPConfirmed && input.Status != RSVPDeclined {
		return nil, ErrInvalidRSVPStatus
	}

	guest, err := s.GetByToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	old := *guest

	now := time.Now().UTC()
	guest.RSVPStatus = input.Status
	guest.RespondedAt = &now
	guest.UpdatedAt = now
	if input.PlusOne != nil {
		guest.PlusOne = *input.PlusOne
	}
	if input.DietaryRestrictions != nil {
		guest.DietaryRestrictions = strings.TrimSpace(*input.DietaryRestrictions)
	}
	if input.Status == RSVPDeclined {
		guest.PlusOne = false
	}

	if err := s.repo.Update(ctx, guest); err != nil {
		return nil, err
	}
	s.events.Updated(ctx, Table, guest.WeddingID, guest, old)

	if s.notifier != nil && (guest.Email != "" || guest.Phone != "") {
		// the response is stored; a failed confirmation does not undo it
		if err := s.notifier.ConfirmRSVP(ctx, s.invitation(*guest, InviteInput{})); err != nil {
			s.log.InternalError("guests.respond: confirmation not sent", err, "guest_id", guest.ID)
		}
	}

	return guest, nil
}

func (s *Service) Invite(ctx context.Context, input InviteInput) error {
	if s.notifier == nil {
		return ErrNotifierDisabled
	}

	guest, err := s.repo.Get(ctx, input.WeddingID, input.GuestID)
	if err != nil {
		return err
	}
	if guest.Email == "" && guest.Phone == "" {
		return ErrNoContact
	}

	return s.notifier.Invite(ctx, s.invitation(*guest, input))
}

func (s *Service) Summary(ctx context.Context, weddingID string) (Summary, error) {
	counts, err := s.repo.CountByStatus(ctx, weddingID)
	if err != nil {
		return Summary{}, err
	}
	return summarize(counts), nil
}

func (s *Service) RSVPURL(token string) string {
	return s.rsvpBaseURL + "/" + token
}

func (s *Service) invitation(guest Guest, input InviteInput) Invitation {
	return Invitation{
		GuestName:    guest.Name,
		Email:        guest.Email,
		Phone:        guest.Phone,
		WeddingTitle: input.WeddingTitle,
		WeddingDate:  input.WeddingDate,
		RSVPURL:      s.RSVPURL(guest.RSVPToken),
		Status:       guest.RSVPStatus,
	}
}

func summarize(counts []StatusCount) Summary {
	var summary Summary
	for _, count := range counts {
		summary.Total += count.Count
		switch count.Status {
		case RSVPConfirmed:
			summary.Confirmed += count.Count
			summary.PlusOnes += count.PlusOnes
		case RSVPPending:
			summary.Pending += count.Count
		case RSVPDeclined:
			summary.Declined += count.Count
		}
	}
	summary.ExpectedAttendees = summary.Confirmed + summary.PlusOnes
	return summary
}
