package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clearharbor/bond-platform-backend/internal/api/handlers"
	custommiddleware "github.com/clearharbor/bond-platform-backend/internal/api/middleware"
	"github.com/clearharbor/bond-platform-backend/internal/config"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
	"github.com/clearharbor/bond-platform-backend/internal/service"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	System       *service.SystemService
	User         *service.UserService
	Investment   *service.InvestmentService
	Withdrawal   *service.WithdrawalService
	Distribution *service.DistributionService
	TimeMachine  *service.TimeMachineService
	AccessToken  *service.AccessTokenService
	ActivityRepo *repository.ActivityRepository
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	adminHandler := handlers.NewAdminHandler(svc.Investment, svc.Distribution, svc.TimeMachine, svc.AccessToken)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/users", func(r chi.Router) {
			userHandler := handlers.NewUserHandler(svc.User, svc.ActivityRepo)
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Get("/{userID}", userHandler.Get)
			r.Get("/{userID}/activity", userHandler.Activity)
		})

		r.Route("/investments", func(r chi.Router) {
			investmentHandler := handlers.NewInvestmentHandler(svc.Investment)
			r.Get("/", investmentHandler.List)
			r.Post("/", investmentHandler.Create)
			r.Get("/{investmentID}", investmentHandler.Get)
			r.Put("/{investmentID}", investmentHandler.Update)
			r.Delete("/{investmentID}", investmentHandler.Delete)
			r.Post("/{investmentID}/submit", investmentHandler.Submit)
			r.Get("/{investmentID}/value", investmentHandler.Value)
			r.Get("/{investmentID}/transactions", investmentHandler.Transactions)
		})

		r.Route("/withdrawals", func(r chi.Router) {
			withdrawalHandler := handlers.NewWithdrawalHandler(svc.Withdrawal)
			r.Post("/", withdrawalHandler.Request)
			r.Get("/{withdrawalID}", withdrawalHandler.Get)
		})

		// Read-only application time, visible to any caller
		r.Get("/time-machine", adminHandler.TimeMachineStatus)

		// Admin namespace, guarded by the API key header
		r.Route("/admin", func(r chi.Router) {
			r.Use(custommiddleware.AdminKey(cfg.Admin.APIKey))

			withdrawalHandler := handlers.NewWithdrawalHandler(svc.Withdrawal)

			r.Post("/investments/{investmentID}/approve", adminHandler.Approve)
			r.Post("/investments/{investmentID}/reject", adminHandler.Reject)
			r.Post("/investments/{investmentID}/terminate", adminHandler.Terminate)

			r.Get("/withdrawals/pending", withdrawalHandler.Pending)
			r.Post("/withdrawals/{withdrawalID}/complete", withdrawalHandler.Complete)

			r.Get("/pending-payouts", adminHandler.PendingPayouts)
			r.Post("/payouts/{transactionID}/complete", adminHandler.CompletePayout)
			r.Post("/payouts/{transactionID}/fail", adminHandler.FailPayout)
			r.Post("/payouts/{transactionID}/retry", adminHandler.RetryPayout)

			r.Post("/distributions/run", adminHandler.RunDistributions)

			r.Get("/time-machine", adminHandler.TimeMachineStatus)
			r.Post("/time-machine", adminHandler.TimeMachineSet)
			r.Delete("/time-machine", adminHandler.TimeMachineReset)

			r.Post("/access-token", adminHandler.AccessToken)
		})
	})

	return r
}
