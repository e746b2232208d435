package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"ripplegate/config"
	"ripplegate/handlers"
	_ "ripplegate/migrations"
	"ripplegate/monitoring"
	"ripplegate/security"
	"ripplegate/services"
	"ripplegate/services/platform"
	"ripplegate/utils"
)

func main() {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	// Initialize services
	platformClient := platform.NewClient(cfg.PlatformBaseURL, cfg.PlatformTimeout)
	eventService := services.NewEventService(platformClient)
	rateService := services.NewRateService(cfg.CoinGeckoBaseURL, cfg.CoinGeckoTimeout)
	purchaseService := services.NewPurchaseService(platformClient, eventService, redisClient, pn, cfg.PurchaseLockTTL)
	verifyService := services.NewVerificationService(platformClient)
	portfolioService := services.NewPortfolioService(platformClient)
	activityService := services.NewActivityService(platformClient)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(app, eventService)
	purchaseHandler := handlers.NewPurchaseHandler(app, purchaseService)
	ticketHandler := handlers.NewTicketHandler(app, platformClient, verifyService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	activityHandler := handlers.NewActivityHandler(activityService)
	ratesHandler := handlers.NewRatesHandler(rateService)
	authHandler := handlers.NewAuthHandler(platformClient)

	buyLimiter := security.NewRateLimiter(redisClient, cfg.BuyRateLimit, cfg.BuyRateWindow)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Create context for background tasks
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	go handleShutdown(cancel)

	if cfg.EnableMetrics {
		monitoring.NewMonitor(ctx, redisClient)
		go serveMetrics(cfg.MetricsPort)
	}

	// Register routes
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Event endpoints
		e.Router.GET("/api/events", eventHandler.GetEvents)
		e.Router.POST("/api/events", eventHandler.CreateEvent)

		// Ticket endpoints
		e.Router.POST("/api/tickets/buy", purchaseHandler.BuyTicket).BindFunc(buyLimiter.PurchaseLimit())
		e.Router.GET("/api/tickets/user/{userId}", ticketHandler.GetUserTickets)
		e.Router.GET("/api/tickets/{ticketId}/verify", ticketHandler.VerifyTicket)
		e.Router.GET("/api/tickets/nfts/{walletAddress}", ticketHandler.GetWalletNFTs)

		// Portfolio and activity endpoints
		e.Router.GET("/api/portfolio/{userId}", portfolioHandler.GetStats)
		e.Router.GET("/api/activity", activityHandler.GetActivity)
		e.Router.GET("/api/purchases/history/{userId}", purchaseHandler.GetHistory)

		// Exchange rate endpoints
		e.Router.GET("/api/rates", ratesHandler.GetRates)
		e.Router.POST("/api/rates/refresh", ratesHandler.RefreshRates)
		e.Router.GET("/api/rates/convert", ratesHandler.ConvertAmount)

		// Session passthrough
		e.Router.GET("/api/auth/me", authHandler.GetMe)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// serveMetrics exposes prometheus metrics on a dedicated port
func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Printf("Metrics server listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("Metrics server stopped: %v", err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
