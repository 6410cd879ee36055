package live

import (
	"fmt"

	"wedding-app-go/internal/domain/vendors"
	"wedding-app-go/internal/realtime"
)

const vendorColumn = "vendor_id"

func Vendors(d Deps, w Watch[vendors.Vendor]) *realtime.Mirror[vendors.Vendor] {
	return newMirror(d, w, realtime.Config[vendors.Vendor]{
		Name:        "vendors",
		Table:       vendors.VendorsTable,
		ScopeColumn: weddingColumn,
		ScopeKey:    func(v vendors.Vendor) string { return v.WeddingID },
		Options: realtime.Options[vendors.Vendor]{
			ID:        func(v vendors.Vendor) string { return v.ID },
			Placement: realtime.Append,
			Less:      func(a, b vendors.Vendor) bool { return nameBefore(a.Name, b.Name) },
		},
		Fetch: wedding(d.Source.ListVendors),
	})
}

func Appointments(d Deps, w Watch[vendors.Appointment]) *realtime.Mirror[vendors.Appointment] {
	return newMirror(d, w, realtime.Config[vendors.Appointment]{
		Name:        "vendor_appointments",
		Table:       vendors.AppointmentsTable,
		ScopeColumn: vendorColumn,
		ScopeKey:    func(a vendors.Appointment) string { return a.VendorID },
		Options: realtime.Options[vendors.Appointment]{
			ID:        func(a vendors.Appointment) string { return a.ID },
			Placement: realtime.Append,
			Less:      func(a, b vendors.Appointment) bool { return a.StartsAt.Before(b.StartsAt) },
		},
		Fetch: d.Source.ListAppointments,
	})
}

func Contracts(d Deps, w Watch[vendors.Contract]) *realtime.Mirror[vendors.Contract] {
	return newMirror(d, w, realtime.Config[vendors.Contract]{
		Name:        "vendor_contracts",
		Table:       vendors.ContractsTable,
		ScopeColumn: vendorColumn,
		ScopeKey:    func(c vendors.Contract) string { return c.VendorID },
		Options: realtime.Options[vendors.Contract]{
			ID:        func(c vendors.Contract) string { return c.ID },
			Placement: realtime.Prepend,
		},
		Fetch: d.Source.ListContracts,
	})
}

func Payments(d Deps, w Watch[vendors.Payment]) *realtime.Mirror[vendors.Payment] {
	return newMirror(d, w, realtime.Config[vendors.Payment]{
		Name:        "vendor_payments",
		Table:       vendors.PaymentsTable,
		ScopeColumn: vendorColumn,
		ScopeKey:    func(p vendors.Payment) string { return p.VendorID },
		Options: realtime.Options[vendors.Payment]{
			ID:        func(p vendors.Payment) string { return p.ID },
			Placement: realtime.Append,
			Less:      func(a, b vendors.Payment) bool { return dueBefore(a.DueDate, b.DueDate) },
		},
		Fetch: d.Source.ListPayments,
		Notify: func(change realtime.Change[vendors.Payment], prev *vendors.Payment) (realtime.Toast, bool) {
			if change.Kind != realtime.KindUpdate || change.New == nil || prev == nil {
				return realtime.Toast{}, false
			}
			if prev.Status == change.New.Status || change.New.Status != vendors.PaymentPaid {
				return realtime.Toast{}, false
			}
			return realtime.Toast{
				Title:   "Payment Recorded",
				Message: fmt.Sprintf("%s paid", money(change.New.Amount)),
				Variant: realtime.VariantSuccess,
			}, true
		},
	})
}

// Reviews mirrors the reviews of one vendor. Vote counters arrive as review
// updates and raise no toast.
func Reviews(d Deps, w Watch[vendors.Review]) *realtime.Mirror[vendors.Review] {
	return newMirror(d, w, realtime.Config[vendors.Review]{
		Name:        "vendor_reviews",
		Table:       vendors.ReviewsTable,
		ScopeColumn: vendorColumn,
		ScopeKey:    func(r vendors.Review) string { return r.VendorID },
		Options: realtime.Options[vendors.Review]{
			ID:        func(r vendors.Review) string { return r.ID },
			Placement: realtime.Prepend,
		},
		Fetch: d.Source.ListReviews,
	})
}
