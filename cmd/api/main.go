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

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tripbudget/internal/classifier"
	"tripbudget/internal/config"
	"tripbudget/internal/database"
	_ "tripbudget/internal/docs" // Import swagger docs
	"tripbudget/internal/handlers"
	"tripbudget/internal/logger"
	"tripbudget/internal/middleware"
	"tripbudget/internal/services"
	"tripbudget/internal/validator"
)

// @title           Trip Budget API
// @version         1.0
// @description     Trip budgets, expense tracking with automatic categorisation, and end-of-trip spending forecasts.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Admin API key.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(appConfig.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Classifier
	corpus, err := classifier.LoadCorpus(appConfig.ClassifierCorpusPath)
	if err != nil {
		return fmt.Errorf("failed to load classifier corpus: %w", err)
	}
	method, err := classifier.MethodByName(appConfig.ClassifierMethod)
	if err != nil {
		return err
	}

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	categoryService := services.NewCategoryService(db)
	tripService := services.NewTripService(db)
	currencyService := services.NewCurrencyService(db)

	categoryClassifier := classifier.New(corpus, services.NewClassifierLookup(categoryService), method, logger.Named("classifier"))
	resolver := services.NewCategoryResolver(categoryService, categoryClassifier, appConfig.FallbackCategory)
	transactionService := services.NewTransactionService(db, tripService, resolver)
	analyticsService := services.NewAnalyticsService(tripService, transactionService, time.Now, appConfig.Location)

	categoryClassifier.Train(context.Background())
	if appConfig.ClassifierRetrainSchedule != "" {
		scheduler, err := categoryClassifier.Schedule(appConfig.ClassifierRetrainSchedule)
		if err != nil {
			return fmt.Errorf("invalid classifier retrain schedule: %w", err)
		}
		defer scheduler.Stop()
	}

	// Initialize handlers
	tripHandler := handlers.NewTripHandler(tripService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, categoryClassifier)
	currencyHandler := handlers.NewCurrencyHandler(currencyService)
	classifierHandler := handlers.NewClassifierHandler(categoryClassifier, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "classifier_trained": categoryClassifier.Trained()})
	})

	v1 := router.Group("/api/v1")

	// Operational routes
	v1.POST("/classifier/train", middleware.AdminKeyMiddleware(appConfig.AdminAPIKey), classifierHandler.Train)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware([]byte(appConfig.JWTSecret)))

	trips := protected.Group("/trips")
	trips.POST("", tripHandler.CreateTrip)
	trips.GET("", tripHandler.GetTrips)
	trips.GET("/:id", tripHandler.GetTrip)
	trips.PUT("/:id", tripHandler.UpdateTrip)
	trips.DELETE("/:id", tripHandler.DeleteTrip)
	trips.GET("/:id/forecast", analyticsHandler.GetTripForecast)
	trips.POST("/:id/transactions", transactionHandler.CreateTransaction)
	trips.GET("/:id/transactions", transactionHandler.GetTripTransactions)
	trips.PUT("/:id/transactions/:transactionId", transactionHandler.UpdateTransaction)
	trips.DELETE("/:id/transactions/:transactionId", transactionHandler.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("/classify", categoryHandler.ClassifyDescription)

	protected.GET("/currencies", currencyHandler.GetCurrencies)
	protected.GET("/classifier/status", classifierHandler.Status)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting trip budget server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
