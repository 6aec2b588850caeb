package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"household-finance/internal/config"
	"household-finance/internal/transport/httpserver/handler"
	authmw "household-finance/internal/transport/httpserver/middleware"
	"household-finance/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens authmw.TokenParser, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORS.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Group(func(r chi.Router) {
			r.Use(authmw.NewAuthRateLimit(cfg.Auth.RateLimit, cfg.Auth.RateWindow))

			r.Post("/users/register", handlers.Register)
			r.Post("/users/login", handlers.Login)
		})

		auth := authmw.NewJWTAuth(tokens, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/users/me", handlers.Me)

			r.Post("/households/create", handlers.CreateHousehold)
			r.Post("/households/join", handlers.JoinHousehold)
			r.Get("/households/current", handlers.CurrentHousehold)
			r.Put("/households/members/{id}/approve", handlers.ApproveMember)
			r.Delete("/households/members/{id}", handlers.RemoveMember)
			r.Get("/households/invitations", handlers.ListInvitations)
			r.Post("/households/invitations", handlers.SendInvitation)
			r.Post("/households/invitations/accept", handlers.AcceptInvitation)
			r.Delete("/households/invitations/{id}", handlers.RevokeInvitation)

			r.Get("/recurring", handlers.ListRecurring)
			r.Post("/recurring", handlers.CreateRecurring)
			r.Get("/recurring/month", handlers.RecurringMonth)
			r.Put("/recurring/{id}", handlers.UpdateRecurring)
			r.Delete("/recurring/{id}", handlers.DeleteRecurring)
			r.Post("/recurring/{id}/pay", handlers.PayRecurring)

			r.Get("/transactions", handlers.ListTransactions)
			r.Post("/transactions", handlers.CreateTransaction)
			r.Get("/transactions/export/excel", handlers.ExportTransactions)
			r.Delete("/transactions/{id}", handlers.DeleteTransaction)

			r.Get("/savings", handlers.ListSavings)
			r.Post("/savings", handlers.CreateSaving)
			r.Put("/savings/{id}", handlers.EditSaving)
			r.Put("/savings/{id}/balance", handlers.UpdateSavingBalance)
			r.Get("/savings/{id}/history", handlers.SavingHistory)
			r.Delete("/savings/{id}", handlers.DeleteSaving)

			r.Get("/audit-logs", handlers.ListAuditLogs)

			r.Get("/stats/heatmap", handlers.Heatmap)
			r.Get("/stats/inflation", handlers.Inflation)
			r.Get("/stats/pie", handlers.Pie)
			r.Get("/stats/averages", handlers.Averages)

			r.Get("/shopping", handlers.ListShopping)
			r.Post("/shopping", handlers.CreateShoppingList)
			r.Put("/shopping/items/{id}", handlers.UpdateShoppingItem)
			r.Delete("/shopping/items/{id}", handlers.DeleteShoppingItem)
			r.Post("/shopping/{listId}/items", handlers.AddShoppingItem)
			r.Delete("/shopping/{id}", handlers.DeleteShoppingList)
		})
	})

	return r
}
