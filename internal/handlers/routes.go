// Package handlers defines the HTTP surface of the service: route
// registration and the Fiber handlers behind it.
package handlers

import (
	"ridepay/internal/config"
	"ridepay/internal/middleware"
	"ridepay/internal/repositories"
	"ridepay/internal/services/auth"
	"ridepay/internal/services/paymob"
	"ridepay/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes wires repositories, services and handlers and registers all
// application routes. The provider callback is the only wallet route left
// unauthenticated: Paymob authenticates itself through the HMAC signature,
// not a bearer token.
func SetupRoutes(app *fiber.App) {
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB)

	paymobCfg := config.LoadPaymobConfig()
	gateway := paymob.NewClient(paymobCfg)

	walletService := wallet.NewService(
		walletRepo,
		userRepo,
		repositories.CacheService,
		gateway,
		&wallet.NoopMetricsCollector{},
	)
	authService := auth.NewService(userRepo, walletService)

	authHandler := NewAuthHandler(authService)
	walletHandler := NewWalletHandler(walletService, gateway)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)
	api.Post("/wallet/callback", walletHandler.Callback)
	app.Get("/health", HealthCheck)

	// Protected endpoints
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Get("/wallet", walletHandler.GetWallet)
	protected.Get("/wallet/transactions", walletHandler.GetTransactions)
	protected.Post("/wallet/top-up/card", walletHandler.TopUpWithCard)
	protected.Post("/wallet/top-up/mobile-wallet", walletHandler.TopUpWithMobileWallet)
}
