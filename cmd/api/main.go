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

	"valentine-pages/internal/catalog"
	"valentine-pages/internal/client"
	"valentine-pages/internal/config"
	"valentine-pages/internal/document"
	"valentine-pages/internal/lock"
	"valentine-pages/internal/logger"
	"valentine-pages/internal/policy"
	"valentine-pages/internal/quota"
	"valentine-pages/internal/repository"
	"valentine-pages/internal/server"
	"valentine-pages/internal/service"
	"valentine-pages/internal/slug"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	log.WithField("environment", cfg.Environment.Name).Info("starting valentine pages api")

	if cfg.Webhook.Secret == "" {
		log.Warn("WEBHOOK_SECRET is empty, every payment webhook will be rejected")
	}

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to init database")
	}

	rdb, lockClient, err := client.InitRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("Failed to init redis")
	}

	entitlementRepo := repository.NewEntitlementRepository(db)
	pendingRepo := repository.NewPendingPublishRepository(db)
	pageRepo := repository.NewPageRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	deviceCountRepo := repository.NewDeviceCountRepository(db)

	counter := quota.NewStoreCounter(deviceCountRepo)
	locker := lock.NewNoopLocker()
	if rdb != nil {
		counter = quota.NewRedisCounter(rdb)
		locker = lock.NewRedisLocker(lockClient, cfg.Publish.LockTTL)
		defer rdb.Close()
	}

	cat := catalog.Default()
	normalizer := document.NewNormalizer(cat)
	policyEngine := policy.NewEngine(cat)
	allocator := slug.NewAllocator(slug.Random)
	paypalClient := client.NewPaypalClient(&cfg.Paypal)

	checkoutService := service.NewCheckoutService(
		cat, normalizer, policyEngine,
		paypalClient, cfg.BaseURL,
		entitlementRepo,
		pendingRepo,
		log,
	)
	publishService := service.NewPublishService(
		service.PublishOptions{
			RequireEntitlement: cfg.Publish.RequireEntitlement,
			FreePlan:           cfg.Publish.FreePlan,
			FreeDeviceLimit:    cfg.Publish.FreeDeviceLimit,
		},
		normalizer, policyEngine, allocator,
		entitlementRepo,
		pageRepo,
		pendingRepo,
		counter, locker,
		log,
	)
	webhookService := service.NewWebhookService(
		cfg.Webhook.Secret, cfg.Webhook.Tolerance,
		cat,
		entitlementRepo,
		webhookEventRepo,
		log,
	)
	entitlementService := service.NewEntitlementService(entitlementRepo)
	pageService := service.NewPageService(pageRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		cfg.HTTP, log,
		checkoutService,
		publishService,
		webhookService,
		entitlementService,
		pageService,
	)

	log.WithField("addr", serverAddr).Info("Starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}
}
