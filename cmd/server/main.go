package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JustJay7/case-status-portal/internal/auth"
	"github.com/JustJay7/case-status-portal/internal/cache"
	"github.com/JustJay7/case-status-portal/internal/config"
	"github.com/JustJay7/case-status-portal/internal/dashboard"
	"github.com/JustJay7/case-status-portal/internal/database"
	"github.com/JustJay7/case-status-portal/internal/server"
	"github.com/JustJay7/case-status-portal/internal/store"
	"github.com/JustJay7/case-status-portal/pkg/logger"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if migrate {
		if _, err := database.Initialize(cfg.DatabasePath); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations completed successfully", "path", cfg.DatabasePath)
		return
	}

	records, err := openStore(cfg)
	if err != nil {
		log.Fatal("Failed to open record store", "error", err, "driver", cfg.StoreDriver)
	}
	cached := store.NewCachedStore(records, cache.NewCache(cfg.CacheSize, cfg.CacheTTL))

	authority, err := auth.NewAuthority(cached, auth.Config{
		Secret:        []byte(cfg.JWTSecret),
		TokenTTL:      cfg.TokenTTL,
		LastNameMatch: auth.LastNameMatch(cfg.LastNameMatch),
		Revocation:    cfg.SessionRevocation,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize session authority", "error", err)
	}

	aggregator, err := dashboard.NewAggregator(cached, dashboard.Config{
		PaymentWindowMonths: cfg.PaymentWindowMonths,
		CourtVisitLimit:     cfg.CourtVisitLimit,
		ClampProgress:       cfg.ClampProgress,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize dashboard", "error", err)
	}

	srv := server.New(cfg, authority, aggregator, cached, log)

	log.Info("Starting Case Status Portal",
		"host", cfg.Host,
		"port", cfg.Port,
		"store", cfg.StoreDriver,
		"session_revocation", cfg.SessionRevocation,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := database.Initialize(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db), nil
	default:
		return store.NewJSONStore(cfg.DataDir), nil
	}
}
