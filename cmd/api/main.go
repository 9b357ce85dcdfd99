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

	"momo-bridge/config"
	httpHandler "momo-bridge/internal/adapter/http/handler"
	"momo-bridge/internal/adapter/momo"
	pgStorage "momo-bridge/internal/adapter/storage/postgres"
	redisStorage "momo-bridge/internal/adapter/storage/redis"
	"momo-bridge/internal/core/ports"
	"momo-bridge/internal/service"
	"momo-bridge/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Getenv("BRIDGE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("version", cfg.Server.Version).
		Str("momo_release", cfg.Momo.Release).
		Msg("Starting MoMo bridge")

	profile, err := momo.LookupProfile(cfg.Momo.Release)
	if err != nil {
		log.Fatal().Err(err).Msg("Unsupported wallet app release")
	}

	ctx := context.Background()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	if err := pgStorage.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories
	userRepo := pgStorage.NewUserRepo(pool)
	regRepo := pgStorage.NewRegistrationRepo(pool)
	transferRepo := pgStorage.NewTransferRepo(pool)

	// Core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Redis stores
	sessionStore := redisStorage.NewSessionStore(rdb, encSvc)
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Wallet gateway
	walletClient := momo.NewClient(
		&http.Client{Timeout: cfg.Momo.Timeout},
		profile,
		walletEndpoints(cfg.Momo.Endpoints),
		log,
	)

	// Business services
	resolver := service.NewSessionResolver(regRepo, sessionStore, encSvc)
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc)
	walletSvc := service.NewWalletService(walletClient, resolver, momo.NewDevice, cfg.Momo.SessionTTL, logger.Component(log, "wallet"))
	transferSvc := service.NewTransferService(walletClient, resolver, transferRepo, idempotencyCache, logger.Component(log, "transfer"))

	gin.SetMode(cfg.Server.Mode)
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:     authSvc,
		WalletSvc:   walletSvc,
		TransferSvc: transferSvc,
		TokenSvc:    tokenSvc,
		RateLimiter: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{
			pgStorage.NewHealthCheck(pool),
			redisStorage.NewHealthCheck(rdb),
		},
		Version: cfg.Server.Version,
		Logger:  log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Leave in-flight transfers time to reach confirm.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Momo.Timeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func walletEndpoints(e config.EndpointsConfig) momo.Endpoints {
	return momo.Endpoints{
		SendOTP:         e.SendOTP,
		RegDevice:       e.RegDevice,
		Login:           e.Login,
		Browse:          e.Browse,
		Details:         e.Details,
		FindReceiver:    e.FindReceiver,
		TransferInit:    e.TransferInit,
		TransferConfirm: e.TransferConfirm,
	}
}
