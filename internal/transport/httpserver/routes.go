package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"wedding-app-go/internal/config"
	"wedding-app-go/internal/realtime/wsfeed"
	"wedding-app-go/internal/transport/httpserver/handler"
	authmw "wedding-app-go/internal/transport/httpserver/middleware"
	"wedding-app-go/pkg/logger"
)

const requestTimeout = 30 * time.Second

func NewRouter(cfg config.Config, handlers *handler.Handlers, weddings authmw.WeddingResolver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	auth := authmw.NewSupabaseAuth(cfg.Supabase, log)
	requireWedding := authmw.RequireWedding(weddings, log)

	r.Route("/api", func(r chi.Router) {
		// websocket connections outlive the request timeout
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Use(requireWedding)
			r.Get(strings.TrimPrefix(wsfeed.Path, "/api"), handlers.Realtime.Subscribe)
		})

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))

			r.Get("/health", handlers.Common.Health)

			r.Route("/public/rsvp/{token}", func(r chi.Router) {
				r.Get("/", handlers.Guests.GetRSVP)
				r.Post("/", handlers.Guests.RespondRSVP)
				r.Get("/photos", handlers.Contributions.GuestListPhotos)
				r.Post("/photos", handlers.Contributions.GuestUploadPhoto)
				r.Get("/photos/{photoID}/comments", handlers.Contributions.GuestListComments)
				r.Post("/photos/{photoID}/comments", handlers.Contributions.GuestAddComment)
				r.Get("/songs", handlers.Contributions.GuestListSongs)
				r.Post("/songs", handlers.Contributions.GuestRequestSong)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)

				r.Get("/auth/me", handlers.Common.AuthMe)
				r.Get("/weddings/me", handlers.Common.GetWedding)
				r.Post("/weddings", handlers.Common.CreateWedding)
				r.Put("/weddings/me", handlers.Common.UpdateWedding)

				r.Group(func(r chi.Router) {
					r.Use(requireWedding)
					mountWedding(r, cfg, handlers)
				})
			})
		})
	})

	return r
}

func mountWedding(r chi.Router, cfg config.Config, handlers *handler.Handlers) {
	if cfg.OfflineSyncEnabled {
		r.Post("/sync", handlers.Common.SyncBatch)
	}

	r.Get("/guests", handlers.Guests.ListGuests)
	r.Post("/guests", handlers.Guests.CreateGuest)
	r.Get("/guests/summary", handlers.Guests.Summary)
	r.Get("/guests/{id}", handlers.Guests.GetGuest)
	r.Put("/guests/{id}", handlers.Guests.UpdateGuest)
	r.Delete("/guests/{id}", handlers.Guests.DeleteGuest)
	r.Post("/guests/{id}/invite", handlers.Guests.InviteGuest)

	r.Get("/tables", handlers.Seating.ListTables)
	r.Post("/tables", handlers.Seating.CreateTable)
	r.Get("/tables/{id}", handlers.Seating.GetTable)
	r.Put("/tables/{id}", handlers.Seating.UpdateTable)
	r.Patch("/tables/{id}/position", handlers.Seating.MoveTable)
	r.Delete("/tables/{id}", handlers.Seating.DeleteTable)
	r.Get("/tables/{id}/seats", handlers.Seating.ListSeats)
	r.Post("/tables/{id}/seats", handlers.Seating.AddSeat)
	r.Delete("/seats/{seatID}", handlers.Seating.DeleteSeat)
	r.Put("/seats/{seatID}/guest", handlers.Seating.AssignGuest)
	r.Delete("/seats/{seatID}/guest", handlers.Seating.UnassignSeat)

	r.Get("/budget/report", handlers.Budget.Report)
	r.Get("/budget/categories", handlers.Budget.ListCategories)
	r.Post("/budget/categories", handlers.Budget.CreateCategory)
	r.Put("/budget/categories/{id}", handlers.Budget.UpdateCategory)
	r.Delete("/budget/categories/{id}", handlers.Budget.DeleteCategory)
	r.Get("/expenses", handlers.Budget.ListExpenses)
	r.Post("/expenses", handlers.Budget.CreateExpense)
	r.Get("/expenses/{id}", handlers.Budget.GetExpense)
	r.Put("/expenses/{id}", handlers.Budget.UpdateExpense)
	r.Delete("/expenses/{id}", handlers.Budget.DeleteExpense)

	r.Get("/vendors", handlers.Vendors.ListVendors)
	r.Post("/vendors", handlers.Vendors.CreateVendor)
	r.Route("/vendors/{vendorID}", func(r chi.Router) {
		r.Get("/", handlers.Vendors.GetVendor)
		r.Put("/", handlers.Vendors.UpdateVendor)
		r.Delete("/", handlers.Vendors.DeleteVendor)
		r.Get("/appointments", handlers.Vendors.ListAppointments)
		r.Post("/appointments", handlers.Vendors.CreateAppointment)
		r.Get("/contracts", handlers.Vendors.ListContracts)
		r.Post("/contracts", handlers.Vendors.CreateContract)
		r.Get("/payments", handlers.Vendors.ListPayments)
		r.Post("/payments", handlers.Vendors.CreatePayment)
		r.Get("/reviews", handlers.Vendors.ListReviews)
		r.Post("/reviews", handlers.Vendors.CreateReview)
	})
	r.Put("/appointments/{id}", handlers.Vendors.UpdateAppointment)
	r.Delete("/appointments/{id}", handlers.Vendors.DeleteAppointment)
	r.Put("/contracts/{id}", handlers.Vendors.UpdateContract)
	r.Put("/contracts/{id}/file", handlers.Vendors.UploadContractFile)
	r.Delete("/contracts/{id}", handlers.Vendors.DeleteContract)
	r.Put("/payments/{id}", handlers.Vendors.UpdatePayment)
	r.Delete("/payments/{id}", handlers.Vendors.DeletePayment)
	r.Post("/payments/{id}/remind", handlers.Vendors.RemindPayment)
	r.Put("/reviews/{id}", handlers.Vendors.UpdateReview)
	r.Delete("/reviews/{id}", handlers.Vendors.DeleteReview)
	r.Put("/reviews/{id}/vote", handlers.Vendors.Vote)
	r.Delete("/reviews/{id}/vote", handlers.Vendors.ClearVote)

	r.Get("/photos", handlers.Contributions.ListPhotos)
	r.Post("/photos", handlers.Contributions.UploadPhoto)
	r.Patch("/photos/{photoID}", handlers.Contributions.UpdateCaption)
	r.Delete("/photos/{photoID}", handlers.Contributions.DeletePhoto)
	r.Get("/photos/{photoID}/comments", handlers.Contributions.ListComments)
	r.Post("/photos/{photoID}/comments", handlers.Contributions.AddComment)
	r.Delete("/comments/{id}", handlers.Contributions.DeleteComment)
	r.Get("/songs", handlers.Contributions.ListSongs)
	r.Post("/songs", handlers.Contributions.RequestSong)
	r.Patch("/songs/{id}", handlers.Contributions.ModerateSong)
	r.Delete("/songs/{id}", handlers.Contributions.DeleteSong)
}
