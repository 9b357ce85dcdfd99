package handler

import (
	"momo-bridge/internal/adapter/http/middleware"
	"momo-bridge/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	WalletSvc      ports.WalletService
	TransferSvc    ports.TransferService
	TokenSvc       ports.TokenService
	RateLimiter    middleware.Limiter // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Version        string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(64 << 10))
	r.Use(middleware.AuditLog(deps.Logger))

	r.GET("/health", HealthCheck(deps.Version, deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimiter == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimiter, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.WalletSvc)
	transferHandler := NewTransferHandler(deps.TransferSvc)

	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.POST("/otp/request", rl("otp_request"), walletHandler.RequestOTP)
		wallet.POST("/otp/confirm", rl("otp_confirm"), walletHandler.ConfirmOTP)
		wallet.POST("/login", rl("wallet_login"), walletHandler.Login)
		wallet.GET("/history", rl("wallet_read"), walletHandler.History)
		wallet.GET("/transactions/:id", rl("wallet_read"), walletHandler.TransactionDetail)
		wallet.GET("/receivers/:target", rl("wallet_read"), walletHandler.FindReceiver)
		wallet.POST("/transfers", rl("transfers"), transferHandler.Send)
		wallet.GET("/transfers/pending", rl("wallet_read"), transferHandler.ListPending)
	}

	return r
}
