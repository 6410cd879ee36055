package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"wedding-app-go/internal/domain/budget"
	"wedding-app-go/internal/domain/contributions"
	"wedding-app-go/internal/domain/guests"
	"wedding-app-go/internal/domain/seating"
	"wedding-app-go/internal/domain/vendors"
	"wedding-app-go/internal/realtime"
)

// printer serializes list snapshots and toasts onto one writer.
type printer struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
	now   func() time.Time
}

func newPrinter(w io.Writer, quiet bool) *printer {
	return &printer{w: w, quiet: quiet, now: time.Now}
}

func (p *printer) Notify(toast realtime.Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s %s: %s\n", p.now().Format(time.TimeOnly), variantMark(toast.Variant), toast.Title, toast.Message)
}

func variantMark(variant realtime.Variant) string {
	switch variant {
	case realtime.VariantSuccess:
		return "[ok]"
	case realtime.VariantDestructive:
		return "[!!]"
	default:
		return "[--]"
	}
}

func printState[T any](p *printer, name string, state realtime.State[T], format func(T) string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case state.Err != nil:
		fmt.Fprintf(p.w, "%s: %v\n", name, state.Err)
		return
	case p.quiet:
		return
	case state.Loading:
		fmt.Fprintf(p.w, "%s: loading\n", name)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", name, humanize.Comma(int64(len(state.Items))))
	for _, item := range state.Items {
		b.WriteString("  ")
		b.WriteString(format(item))
		b.WriteByte('\n')
	}
	_, _ = io.WriteString(p.w, b.String())
}

func money(amount float64) string {
	return humanize.CommafWithDigits(amount, 2)
}

func when(t *time.Time) string {
	if t == nil {
		return "no date"
	}
	return humanize.Time(*t)
}

func formatGuest(g guests.Guest) string {
	line := fmt.Sprintf("%s  %s", g.Name, g.RSVPStatus)
	if g.PlusOne {
		line += "  +1"
	}
	if g.Category != "" {
		line += "  " + g.Category
	}
	return line
}

func formatTable(t seating.Table) string {
	return fmt.Sprintf("%s  %s  %d seats  at (%.0f, %.0f)", t.Name, t.Shape, t.Capacity, t.PositionX, t.PositionY)
}

func formatSeat(s seating.Seat) string {
	switch {
	case s.GuestID == nil:
		return fmt.Sprintf("#%d  empty", s.Number)
	case s.GuestName == "":
		return fmt.Sprintf("#%d  %s", s.Number, realtime.UnknownLabel)
	default:
		return fmt.Sprintf("#%d  %s", s.Number, s.GuestName)
	}
}

func formatCategory(c budget.Category) string {
	return fmt.Sprintf("%s  allocated %s", c.Name, money(c.Allocated))
}

func formatExpense(e budget.Expense) string {
	return fmt.Sprintf("%s  %s  %s  due %s", e.Name, money(e.Amount), e.Status, when(e.DueDate))
}

func formatVendor(v vendors.Vendor) string {
	if v.Category == "" {
		return v.Name
	}
	return fmt.Sprintf("%s  %s", v.Name, v.Category)
}

func formatAppointment(a vendors.Appointment) string {
	line := fmt.Sprintf("%s  %s", a.Title, humanize.Time(a.StartsAt))
	if a.Location != "" {
		line += "  at " + a.Location
	}
	return line
}

func formatContract(c vendors.Contract) string {
	signed := "unsigned"
	if c.SignedAt != nil {
		signed = "signed " + humanize.Time(*c.SignedAt)
	}
	return fmt.Sprintf("%s  %s  %s", c.Title, money(c.Amount), signed)
}

func formatPayment(p vendors.Payment) string {
	return fmt.Sprintf("%s  %s  due %s", money(p.Amount), p.Status, when(p.DueDate))
}

func formatReview(r vendors.Review) string {
	return fmt.Sprintf("%d/5  %d helpful  %d not  %s", r.Rating, r.HelpfulCount, r.UnhelpfulCount, r.Body)
}

func formatPhoto(p contributions.Photo) string {
	if p.Caption == "" {
		return p.URL
	}
	return fmt.Sprintf("%s  %s", p.Caption, p.URL)
}

func formatComment(c contributions.Comment) string {
	author := c.GuestName
	if author == "" {
		author = "Planner"
	}
	return fmt.Sprintf("%s: %s", author, c.Body)
}

func formatSong(s contributions.SongRequest) string {
	if s.Artist == "" {
		return fmt.Sprintf("%s  %s", s.Title, s.Status)
	}
	return fmt.Sprintf("%s by %s  %s", s.Title, s.Artist, s.Status)
}
