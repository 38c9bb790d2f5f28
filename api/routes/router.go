package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrimart-np/agrimart-backend/api/controllers"
	admincontrollers "github.com/agrimart-np/agrimart-backend/api/controllers/admin"
	ordercontrollers "github.com/agrimart-np/agrimart-backend/api/controllers/orders"
	usercontrollers "github.com/agrimart-np/agrimart-backend/api/controllers/users"
	walletcontrollers "github.com/agrimart-np/agrimart-backend/api/controllers/wallet"
	"github.com/agrimart-np/agrimart-backend/api/middleware"
	"github.com/agrimart-np/agrimart-backend/internal/activity"
	"github.com/agrimart-np/agrimart-backend/internal/archive"
	"github.com/agrimart-np/agrimart-backend/internal/ledger"
	"github.com/agrimart-np/agrimart-backend/internal/orders"
	"github.com/agrimart-np/agrimart-backend/internal/wallet"
	"github.com/agrimart-np/agrimart-backend/internal/withdrawals"
	"github.com/agrimart-np/agrimart-backend/pkg/config"
	"github.com/agrimart-np/agrimart-backend/pkg/db"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
	"github.com/agrimart-np/agrimart-backend/pkg/metrics"
	"github.com/agrimart-np/agrimart-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Orders      orders.Service
	Wallet      wallet.Service
	Ledger      ledger.Service
	Withdrawals withdrawals.Service
	Archive     archive.Service
	Activity    activity.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(svcs.Orders, logg))
			r.Post("/", ordercontrollers.CreateCOD(svcs.Orders, logg))
			r.Post("/initiate", ordercontrollers.InitiatePayment(svcs.Orders, logg))
			r.Post("/verify-payment", ordercontrollers.VerifyPayment(svcs.Orders, logg))
			r.Put("/{id}/status", ordercontrollers.UpdateStatus(svcs.Orders, logg))
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", walletcontrollers.Overview(svcs.Wallet, logg))
			r.Get("/ledger/cod", walletcontrollers.LedgerCOD(svcs.Ledger, logg))
			r.Get("/ledger/online", walletcontrollers.LedgerOnline(svcs.Ledger, logg))
			r.Post("/withdraw", walletcontrollers.RequestWithdrawal(svcs.Withdrawals, logg))
		})

		r.Delete("/users/me", usercontrollers.DeleteMe(svcs.Archive, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))

		r.Get("/withdrawals", admincontrollers.ListWithdrawals(svcs.Withdrawals, logg))
		r.Put("/withdrawals/{id}", admincontrollers.ProcessWithdrawal(svcs.Withdrawals, logg))
		r.Put("/wallets/{userId}/freeze", admincontrollers.FreezeWallet(svcs.Wallet, logg))
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/cod", admincontrollers.LedgerCOD(svcs.Ledger, logg))
			r.Get("/online", admincontrollers.LedgerOnline(svcs.Ledger, logg))
			r.Post("/cod/{reference}/settle", admincontrollers.SettleCOD(svcs.Ledger, logg))
		})
		r.Delete("/users/{userId}", admincontrollers.DeleteUser(svcs.Archive, logg))
		r.Get("/activities", admincontrollers.Activities(svcs.Activity, logg))
	})

	return r
}
