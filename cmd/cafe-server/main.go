package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Raghav1000000000/cafe/internal/bill"
	"github.com/Raghav1000000000/cafe/internal/config"
	"github.com/Raghav1000000000/cafe/internal/customer"
	"github.com/Raghav1000000000/cafe/internal/db"
	cafeHttp "github.com/Raghav1000000000/cafe/internal/handler/http"
	"github.com/Raghav1000000000/cafe/internal/menu"
	"github.com/Raghav1000000000/cafe/internal/notify"
	"github.com/Raghav1000000000/cafe/internal/order"
	"github.com/Raghav1000000000/cafe/internal/otp"
	"github.com/Raghav1000000000/cafe/internal/phone"
	"github.com/Raghav1000000000/cafe/internal/report"
	"github.com/Raghav1000000000/cafe/internal/store"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "cafe-server").Logger()

	log.Info().Msg("Cafe server starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	primary, closeStore := openStore(cfg)
	defer closeStore()

	st := store.New(primary)

	normalizer := phone.NewNormalizer(cfg.App.DefaultCountryCode)
	notifier := notify.NewLogNotifier()

	orderService := order.NewService(st, st, normalizer)
	billService := bill.NewService(st, st, st, notifier, normalizer)
	customerService := customer.NewService(st, normalizer)
	menuService := menu.NewService(st)
	reportService := report.NewService(st)
	otpManager := otp.NewManager(normalizer, notifier, st, cfg.OTP.TTL, cfg.OTP.MaxAttempts)

	router := cafeHttp.NewRouter(cafeHttp.Services{
		Orders:    orderService,
		Bills:     billService,
		Customers: customerService,
		Menu:      menuService,
		Reports:   reportService,
		OTP:       otpManager,
	}, st)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Bool("persistent", st.Persistent()).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

// openStore connects the persistent backend when one is configured. The
// connect wait is bounded by DB_CONNECT_TIMEOUT; missing that window is
// fatal only when PERSISTENCE_REQUIRED is set, otherwise the server comes
// up on the in-memory store alone.
func openStore(cfg *config.Config) (store.Backend, func()) {
	if !cfg.PostgresEnabled() {
		log.Warn().Msg("No database configured, running on the in-memory store")
		return nil, func() {}
	}

	database, err := db.Connect(context.Background(), cfg)
	if err == nil {
		if err = database.Migrate(cfg); err != nil {
			database.Close()
		}
	}
	if err != nil {
		if cfg.Postgres.Required {
			log.Fatal().Err(err).Msg("Persistent storage required but unavailable")
		}
		log.Warn().Err(err).Msg("Persistent storage unavailable, running on the in-memory store")
		return nil, func() {}
	}

	return store.NewPostgres(database.Pool), database.Close
}
