package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashibank/hashi-bank-be/internal/api"
	"github.com/hashibank/hashi-bank-be/internal/config"
	"github.com/hashibank/hashi-bank-be/internal/database"
	"github.com/hashibank/hashi-bank-be/internal/logger"
	"github.com/hashibank/hashi-bank-be/internal/monitoring"
	"github.com/hashibank/hashi-bank-be/internal/services"
	"github.com/hashibank/hashi-bank-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	pinService := services.NewPinService(db)
	userService := services.NewUserService(db, cfg.SeedUsers)
	ledgerService := services.NewLedgerService(db, userService, hub)

	var reporter *monitoring.TotalsReporter
	if cfg.TotalsReportCron != "" {
		reporter, err = monitoring.NewTotalsReporter(ledgerService, cfg.TotalsReportCron)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to set up totals reporter")
		}
		reporter.Start()
	}

	// Set up router
	router := api.NewRouter(hub, api.Services{
		Pins:   pinService,
		Users:  userService,
		Ledger: ledgerService,
	}, cfg.AllowedOrigins)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	if reporter != nil {
		reporter.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
