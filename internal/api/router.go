package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashibank/hashi-bank-be/internal/api/handlers"
	"github.com/hashibank/hashi-bank-be/internal/services"
	"github.com/hashibank/hashi-bank-be/internal/websocket"
)

// Services bundles the providers the router dispatches to.
type Services struct {
	Pins   services.PinServiceProvider
	Users  services.UserServiceProvider
	Ledger services.LedgerServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, svc Services, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(svc.Pins)
	userHandler := handlers.NewUserHandler(svc.Users)
	ledgerHandler := handlers.NewLedgerHandler(svc.Ledger)
	wsHandler := handlers.NewWebSocketHandler(hub, allowedOrigins)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ws", wsHandler.Serve)

		r.Post("/auth/verify-pin", authHandler.VerifyPin)
		r.Post("/init", userHandler.Init)
		r.Get("/users", userHandler.GetAll)

		r.Route("/deposits", func(r chi.Router) {
			r.Get("/", ledgerHandler.ListDeposits)
			r.Post("/", ledgerHandler.CreateDeposit)
		})
		r.Route("/withdrawals", func(r chi.Router) {
			r.Get("/", ledgerHandler.ListWithdrawals)
			r.Post("/", ledgerHandler.CreateWithdrawal)
		})

		r.Get("/totals", ledgerHandler.Totals)
	})

	return r
}
