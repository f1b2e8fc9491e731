package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"lawpages-go/internal/config"
	"lawpages-go/internal/transport/httpserver/handler"
	authmw "lawpages-go/internal/transport/httpserver/middleware"
	"lawpages-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		// Public surface: profile lookup and booking intake.
		r.Get("/p/{slug}", handlers.GetPageBySlug)
		r.Post("/bookings", handlers.CreateBooking)

		// Machine surface: payment gateway callback.
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireWebhookToken(cfg.Webhook.PaymentToken))
			r.Post("/webhooks/payments", handlers.PaymentWebhook)
		})

		auth := authmw.NewAuth(cfg.Auth, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/pages", handlers.ListMyPages)
			r.Post("/pages", handlers.CreatePage)
			r.Get("/pages/{page_id}", handlers.GetPage)
			r.Patch("/pages/{page_id}", handlers.UpdatePage)
			r.Post("/pages/{page_id}/deactivate", handlers.DeactivatePage)

			r.Get("/pages/{page_id}/access", handlers.GetAccess)
			r.Get("/pages/{page_id}/collaborations", handlers.ListPageCollaborations)
			r.Post("/pages/{page_id}/collaborations", handlers.GrantCollaboration)
			r.Patch("/collaborations/{collaboration_id}", handlers.ChangeCollaborationRole)
			r.Delete("/collaborations/{collaboration_id}", handlers.RevokeCollaboration)
			r.Get("/collaborations", handlers.ListMyCollaborations)

			r.Get("/pages/{page_id}/clients", handlers.ListClients)
			r.Post("/pages/{page_id}/clients", handlers.RegisterClient)
			r.Get("/pages/{page_id}/clients/{client_id}", handlers.GetClient)
			r.Patch("/pages/{page_id}/clients/{client_id}/status", handlers.SetClientStatus)

			r.Get("/pages/{page_id}/appointments", handlers.ListAppointments)
			r.Get("/appointments/{appointment_id}", handlers.GetAppointment)
			r.Post("/appointments/{appointment_id}/price", handlers.SetAppointmentPrice)
			r.Post("/appointments/{appointment_id}/reject", handlers.RejectAppointment)
			r.Post("/appointments/{appointment_id}/confirm", handlers.ConfirmAppointment)
			r.Post("/appointments/{appointment_id}/finalize", handlers.FinalizeAppointment)
			r.Post("/appointments/{appointment_id}/cancel", handlers.CancelAppointment)
			r.Post("/appointments/{appointment_id}/register-client", handlers.RegisterAppointmentClient)

			r.Post("/finance/reconcile", handlers.Reconcile)
			r.Get("/finance/records", handlers.ListPaymentRecords)
			r.Get("/finance/balance", handlers.AvailableBalance)
			r.Post("/finance/withdrawals/link", handlers.LinkWithdrawal)
			r.Get("/pages/{page_id}/finance/summary", handlers.FinanceSummary)
		})
	})

	return r
}
