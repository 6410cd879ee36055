package notify

import (
	"context"
	"errors"
	"strings"

	guestsdomain "wedding-app-go/internal/domain/guests"
	vendorsdomain "wedding-app-go/internal/domain/vendors"
	"wedding-app-go/pkg/logger"
)

var ErrNoChannel = errors.New("no notification channel can reach the recipient")

type Invoker interface {
	Invoke(ctx context.Context, name string, payload Payload) error
}

type Messenger interface {
	Send(ctx context.Context, phone, text string) error
}

// Dispatcher routes guest and vendor notifications: email through an Edge
// Function, phone numbers through WhatsApp when it is linked. Either channel
// may be nil.
type Dispatcher struct {
	functions Invoker
	function  string
	whatsapp  Messenger
	log       logger.Logger
}

func NewDispatcher(functions Invoker, function string, whatsapp Messenger, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		functions: functions,
		function:  function,
		whatsapp:  whatsapp,
		log:       log.Component("notify"),
	}
}

func (d *Dispatcher) Invite(ctx context.Context, invitation guestsdomain.Invitation) error {
	return d.send(ctx, "invite", invitation.Email, invitation.Phone, Payload{
		Kind: KindGuestInvitation,
		To:   invitation.Email,
		Data: invitationData(invitation),
	}, invitationText(invitation))
}

func (d *Dispatcher) ConfirmRSVP(ctx context.Context, invitation guestsdomain.Invitation) error {
	return d.send(ctx, "confirm_rsvp", invitation.Email, invitation.Phone, Payload{
		Kind: KindRSVPConfirmation,
		To:   invitation.Email,
		Data: invitationData(invitation),
	}, confirmationText(invitation))
}

// RemindPayment sends to an email address or, when the recipient looks like
// a phone number, over WhatsApp.
func (d *Dispatcher) RemindPayment(ctx context.Context, reminder vendorsdomain.Reminder) error {
	to := strings.TrimSpace(reminder.To)
	email, phone := to, ""
	if !strings.Contains(to, "@") {
		email, phone = "", to
	}
	return d.send(ctx, "remind_payment", email, phone, Payload{
		Kind: KindPaymentReminder,
		To:   email,
		Data: reminderData(reminder),
	}, reminderText(reminder))
}

// send delivers over every channel that can reach the recipient. It fails
// only when nothing was delivered.
func (d *Dispatcher) send(ctx context.Context, action, email, phone string, payload Payload, text string) error {
	delivered := 0
	var errs []error

	if email != "" && d.functions != nil {
		if err := d.functions.Invoke(ctx, d.function, payload); err != nil {
			errs = append(errs, err)
		} else {
			delivered++
		}
	}
	if phone != "" && d.whatsapp != nil {
		if err := d.whatsapp.Send(ctx, phone, text); err != nil {
			errs = append(errs, err)
		} else {
			delivered++
		}
	}

	switch {
	case delivered == 0 && len(errs) == 0:
		return ErrNoChannel
	case delivered == 0:
		return errors.Join(errs...)
	case len(errs) > 0:
		d.log.Warn("notify."+action+": channel failed", "error", errors.Join(errs...).Error())
	}

	d.log.Debug("notify."+action+": delivered", "kind", string(payload.Kind), "channels", delivered)
	return nil
}
