package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Dinara-volsu/library-management-system/internal/auth"
	"github.com/Dinara-volsu/library-management-system/internal/catalog"
	"github.com/Dinara-volsu/library-management-system/internal/config"
	"github.com/Dinara-volsu/library-management-system/internal/console"
	"github.com/Dinara-volsu/library-management-system/internal/domain"
	"github.com/Dinara-volsu/library-management-system/internal/events"
	"github.com/Dinara-volsu/library-management-system/internal/httpapi"
	"github.com/Dinara-volsu/library-management-system/internal/reservation"
	"github.com/Dinara-volsu/library-management-system/internal/store"
	"github.com/Dinara-volsu/library-management-system/pkg/logger"
)

func main() {
	mode := flag.String("mode", "console", "run mode: console or web")
	flag.Parse()

	cfg := config.Load()

	log := logger.NewLogger(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	db, err := store.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := store.RunMigrations(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	st := store.New(db, log)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, log)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	authSvc := auth.NewService(st, log)
	catalogSvc := catalog.NewService(st, publisher, log)
	reservationSvc := reservation.NewService(st, publisher, log, cfg.PickupLeadDays)

	seedAdmin(cfg, st, authSvc, log)

	switch *mode {
	case "console":
		console.New(catalogSvc, reservationSvc, authSvc).Run(context.Background())
	case "web":
		runWeb(cfg, st, db, publisher, authSvc, catalogSvc, reservationSvc, log)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q (want console or web)\n", *mode)
		os.Exit(2)
	}
}

// seedAdmin creates the first administrator account when configured and
// the username is still free.
func seedAdmin(cfg *config.Config, st *store.Store, authSvc *auth.Service, log *zap.Logger) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := st.GetUserByUsername(ctx, cfg.AdminUsername); err == nil {
		return
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		log.Warn("could not check admin account", zap.Error(err))
		return
	}

	if _, err := authSvc.RegisterAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword, "Administrator"); err != nil {
		log.Warn("could not seed admin account", zap.Error(err))
		return
	}
	log.Info("seeded admin account", zap.String("username", cfg.AdminUsername))
}

func runWeb(
	cfg *config.Config,
	st *store.Store,
	db *store.DB,
	publisher events.Publisher,
	authSvc *auth.Service,
	catalogSvc *catalog.Service,
	reservationSvc *reservation.Service,
	log *zap.Logger,
) {
	server := httpapi.NewServer(
		catalogSvc,
		reservationSvc,
		authSvc,
		auth.NewSessions(),
		st,
		db,
		publisher,
		log,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      server.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("server stopped")
}
