package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fleetcart/catalog-service/docs"

	"github.com/fleetcart/catalog-service/config"
	"github.com/fleetcart/catalog-service/internal/catalog"
	"github.com/fleetcart/catalog-service/internal/database"
	"github.com/fleetcart/catalog-service/internal/handlers"
	"github.com/fleetcart/catalog-service/internal/ingestion"
	"github.com/fleetcart/catalog-service/internal/middleware"
	"github.com/fleetcart/catalog-service/internal/orders"
	"github.com/fleetcart/catalog-service/internal/storage"
	"github.com/fleetcart/catalog-service/internal/sweepers"
	"github.com/fleetcart/catalog-service/internal/telemetry"
)

// @title Fleet Catalog Service API
// @version 1.0
// @description Internal API for pricing-sheet ingestion, run monitoring, and purchase order administration.
// @BasePath /internal
// @securityDefinitions.apikey InternalApiKey
// @in header
// @name X-Internal-API-Key
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting fleet catalog service")

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()

	cleanupTelemetry := telemetry.MustInit(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	defer cleanupTelemetry(ctx)

	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	handlers.InitCatalog(catalog.New(database.Pool()))
	handlers.InitOrders(orders.New(database.Pool()))

	sheetStore, err := storage.NewLocalStorage(cfg.Ingestion.SheetDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize sheet storage")
	}
	handlers.InitIngestion(ingestion.New(database.Pool(), cfg.Ingestion.MaxConcurrentFiles), sheetStore)

	// Runs left 'running' by a crash get swept to 'interrupted'
	runSweeper := sweepers.NewIngestionRunSweeper(database.Pool(), logger, 5*time.Minute, 30*time.Minute)
	go runSweeper.Start(ctx)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)
	router.Use(middleware.RateLimitMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
	}))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		governance := api.Group("/governance")
		{
			governance.GET("/years", handlers.ListYears)
			governance.GET("/years/:yearId/makes", handlers.ListMakes)
			governance.GET("/years/:yearId/makes/:makeId/models", handlers.ListModels)
			governance.GET("/years/:yearId/makes/:makeId/models/:modelId/trims", handlers.ListTrims)
		}

		vehicles := api.Group("/vehicles")
		{
			vehicles.POST("/search", handlers.SearchVehicles)
			vehicles.GET("/:id", handlers.GetVehicle)
		}

		api.POST("/cart/quote", handlers.QuoteCart)

		purchaseOrders := api.Group("/purchase-orders")
		{
			purchaseOrders.POST("", handlers.CreateOrder)
			purchaseOrders.GET("", handlers.ListOrders)
			purchaseOrders.GET("/:id", handlers.GetOrder)
		}
	}

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	internal.Use(middleware.ServiceRateLimitMiddleware(50, 100))
	{
		internal.GET("/health", handlers.HealthCheck)

		internal.PUT("/purchase-orders/:id/status", handlers.UpdateOrderStatus)

		ingestion := internal.Group("/ingestion")
		{
			ingestion.POST("/sheets", handlers.UploadSheets)
			ingestion.GET("/runs", handlers.ListRuns)
			ingestion.GET("/runs/:runId", handlers.GetRun)
			ingestion.GET("/runs/:runId/errors", handlers.ListRunErrors)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	runSweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "fleet-catalog-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
