package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/logger"
	"github.com/kgn-corner/restaurant-api/routes"
	"github.com/kgn-corner/restaurant-api/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	seed := flag.Bool("seed", false, "load demo data after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel)
	slog.Info("starting KGN Restaurant API", slog.String("env", cfg.GoEnv))

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	db := config.GetDB()
	if err := config.Migrate(db); err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("database migration completed")

	if *seed {
		if err := config.Seed(db); err != nil {
			slog.Error("failed to seed database", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initServices(ctx, cfg)
	if settings, err := services.GetSettings(ctx, db); err != nil {
		slog.Warn("failed to load restaurant settings", slog.String("error", err.Error()))
	} else {
		services.GetNotifier().SetRestaurantName(settings.Name)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}

	services.GetNotifier().Wait()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	slog.Info("server stopped")
}

// initServices installs the payment gateway, mailer, image storage and menu cache
func initServices(ctx context.Context, cfg *config.Config) {
	services.InitPaymentGateway(cfg.StripeSecretKey, cfg.StripeAPIBase, cfg.PaymentTimeout)
	if cfg.StripeSecretKey == "" {
		slog.Warn("STRIPE_SECRET_KEY not set, online payments are disabled")
	}

	var mailer services.Mailer = services.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = services.NewSMTPMailer(services.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
	} else {
		slog.Warn("SMTP_HOST not set, emails are only logged")
	}
	services.InitNotifier(mailer, cfg.AdminEmail, cfg.EmailTimeout)

	if cfg.StorageEnabled() {
		s3Service, err := services.InitS3Service(ctx, cfg)
		if err != nil {
			slog.Error("failed to initialize S3, image uploads are disabled", slog.String("error", err.Error()))
		} else {
			services.InitImageService(s3Service)
			slog.Info("image storage enabled", slog.String("bucket", cfg.AWSS3Bucket))
		}
	}

	if _, err := services.InitMenuCache(ctx, cfg.RedisURL, cfg.MenuCacheTTL); err != nil {
		slog.Warn("menu cache unavailable, serving from database", slog.String("error", err.Error()))
		services.SetMenuCache(nil)
	}
}
