package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	guestsdomain "wedding-app-go/internal/domain/guests"
	vendorsdomain "wedding-app-go/internal/domain/vendors"
)

const dateLayout = "Monday, January 2, 2006"

func invitationData(invitation guestsdomain.Invitation) map[string]any {
	data := map[string]any{
		"guest_name":    invitation.GuestName,
		"wedding_title": invitation.WeddingTitle,
		"rsvp_url":      invitation.RSVPURL,
		"rsvp_status":   string(invitation.Status),
	}
	if invitation.WeddingDate != nil {
		data["wedding_date"] = invitation.WeddingDate.Format(time.DateOnly)
	}
	return data
}

func reminderData(reminder vendorsdomain.Reminder) map[string]any {
	data := map[string]any{
		"vendor_name": reminder.VendorName,
		"amount":      reminder.Amount,
	}
	if reminder.DueDate != nil {
		data["due_date"] = reminder.DueDate.Format(time.DateOnly)
	}
	return data
}

func invitationText(invitation guestsdomain.Invitation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", invitation.GuestName)
	if invitation.WeddingTitle != "" {
		fmt.Fprintf(&b, "You are invited to %s", invitation.WeddingTitle)
	} else {
		b.WriteString("You are invited to our wedding")
	}
	if invitation.WeddingDate != nil {
		fmt.Fprintf(&b, " on %s", invitation.WeddingDate.Format(dateLayout))
	}
	b.WriteString(".\n\n")
	fmt.Fprintf(&b, "Please let us know if you can come: %s", invitation.RSVPURL)
	return b.String()
}

func confirmationText(invitation guestsdomain.Invitation) string {
	switch invitation.Status {
	case guestsdomain.RSVPConfirmed:
		return fmt.Sprintf("Thank you %s, your attendance is confirmed. You can change your answer at %s", invitation.GuestName, invitation.RSVPURL)
	case guestsdomain.RSVPDeclined:
		return fmt.Sprintf("Thank you %s, we are sorry you can't make it. If plans change: %s", invitation.GuestName, invitation.RSVPURL)
	default:
		return fmt.Sprintf("Thank you %s, we received your answer.", invitation.GuestName)
	}
}

func reminderText(reminder vendorsdomain.Reminder) string {
	text := fmt.Sprintf("Reminder: payment of %s to %s is pending", humanize.CommafWithDigits(reminder.Amount, 2), reminder.VendorName)
	if reminder.DueDate != nil {
		text += fmt.Sprintf(", due %s (%s)", reminder.DueDate.Format(dateLayout), humanize.Time(*reminder.DueDate))
	}
	return text + "."
}
