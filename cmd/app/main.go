package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"food-spot-backend/internal/config"
	"food-spot-backend/internal/domain/ports/adapter"
	payAdapters "food-spot-backend/internal/infra/adapters/payment"
	pg "food-spot-backend/internal/infra/db/postgres"
	"food-spot-backend/internal/infra/logging"
	"food-spot-backend/internal/infra/metrics"
	red "food-spot-backend/internal/infra/redis"
	"food-spot-backend/internal/infra/sched"
	"food-spot-backend/internal/infra/web"
	"food-spot-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop gateway)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	if err := pg.RunMigrations(cfg.Database.URL, *logger); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	ratingCache := red.NewRatingCache(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	spotRepo := pg.NewFoodSpotRepo(pool)
	reviewRepo := pg.NewReviewRepo(pool)
	voteRepo := pg.NewVoteRepo(pool)
	payRepo := pg.NewPaymentRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	if cfg.Runtime.Dev {
		// Exercise the purchase flow locally without store credentials.
		gateway = payAdapters.NewNoopPaymentGateway()
		logger.Warn().Msg("using noop payment gateway")
	} else {
		gateway = payAdapters.NewSSLCommerzGateway(&cfg.Payment.SSLCommerz)
	}

	// ---- Use cases ----
	authUC := usecase.NewAuthUseCase(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)
	userUC := usecase.NewUserUseCase(userRepo, logger)
	spotUC := usecase.NewFoodSpotUseCase(spotRepo, reviewRepo, voteRepo, ratingCache, logger)
	reviewUC := usecase.NewReviewUseCase(reviewRepo, spotRepo, ratingCache, logger)
	voteUC := usecase.NewVoteUseCase(voteRepo, spotRepo, logger)
	paymentUC := usecase.NewPaymentUseCase(payRepo, userRepo, logger)

	backend := strings.TrimSuffix(cfg.Server.BackendURL, "/")
	subUC := usecase.NewSubscriptionUseCase(paymentUC, userRepo, gateway, txManager, usecase.CallbackURLs{
		Success: backend + "/payments/callback/success",
		Fail:    backend + "/payments/callback/fail",
		Cancel:  backend + "/payments/callback/cancel",
		IPN:     backend + "/payments/callback/ipn",
	}, logger)

	// ---- Workers ----
	expiryWorker := sched.NewExpiryWorker(cfg.Scheduler.ExpirySweepInterval, subUC, logger)
	go func() { _ = expiryWorker.Run(ctx) }()
	reconciler := sched.NewPaymentReconciler(subUC, payRepo, cfg.Scheduler.ReconcileInterval, cfg.Scheduler.ReconcileStaleAfter, logger)
	go func() { _ = reconciler.Run(ctx) }()

	// ---- HTTP server ----
	metrics.MustRegister()
	srv := web.NewServer(authUC, userUC, spotUC, reviewUC, voteUC, subUC, paymentUC, rateLimiter, cfg.Server.FrontendURL, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
}
