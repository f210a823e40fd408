package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/02loveslollipop/MiPedido/internal/cache"
	"github.com/02loveslollipop/MiPedido/internal/handler"
	"github.com/02loveslollipop/MiPedido/internal/repositories"
	"github.com/02loveslollipop/MiPedido/internal/router"
	"github.com/02loveslollipop/MiPedido/internal/service"
	"github.com/02loveslollipop/MiPedido/pkg/database"
	"github.com/02loveslollipop/MiPedido/pkg/envconfig"
	"github.com/02loveslollipop/MiPedido/pkg/flags"
	"github.com/02loveslollipop/MiPedido/pkg/logger"
	"github.com/02loveslollipop/MiPedido/pkg/shutdownsetup"
)

func main() {
	// Parse command-line flags
	flagConfig := flags.Parse()

	if err := flagConfig.Validate(); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		return
	}

	envErr := envconfig.LoadEnvFile(".env")

	loggerConfig := logger.Config{
		Level:        envconfig.GetLogLevel(),
		Format:       envconfig.GetEnv("LOG_FORMAT", "json"),
		Output:       envconfig.GetEnv("LOG_OUTPUT", "stdout"),
		EnableCaller: envconfig.GetEnv("LOG_ENABLE_CALLER", "true") == "true",
		Environment:  envconfig.GetEnv("ENVIRONMENT", "development"),
	}

	appLogger := logger.New(loggerConfig)

	if envErr != nil {
		appLogger.Warn("Failed to load .env file", "error", envErr)
	} else {
		appLogger.Debug(".env file loaded successfully")
	}

	appLogger.Info("Starting MiPedido order service",
		"environment", loggerConfig.Environment,
		"log_level", loggerConfig.Level)

	// Establish database connection
	dbConfig := envconfig.LoadDatabaseConfig()
	db, err := database.NewConnection(context.Background(), dbConfig, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to establish database connection", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	}()

	// Optional product cache; the catalog reads fall back to the database
	// when no redis address is configured.
	var productCache cache.Cache
	if redisAddr := envconfig.GetEnv("REDIS_ADDR", ""); redisAddr != "" {
		productCache = cache.NewRedisCache(redisAddr, envconfig.GetEnv("REDIS_PASSWORD", ""))
		appLogger.Info("Product cache enabled", "addr", redisAddr)
	} else {
		appLogger.Info("Product cache disabled (REDIS_ADDR not set)")
	}

	jwtSecret := envconfig.GetEnv("SECRET_KEY", "")
	if jwtSecret == "" {
		appLogger.Warn("SECRET_KEY not set; finalize and fulfill will reject all tokens")
	}

	// Initialize repositories
	orderRepo := repositories.NewOrderRepository(appLogger, db)
	productRepo := repositories.NewProductRepository(appLogger, db, productCache)
	restaurantRepo := repositories.NewRestaurantRepository(appLogger, db)
	userRepo := repositories.NewUserRepository(appLogger, db)

	// Initialize services
	catalogValidator := service.NewCatalogValidator(productRepo, appLogger)
	authorizationGate := service.NewAuthorizationGate(userRepo, appLogger)
	orderService := service.NewOrderService(orderRepo, restaurantRepo, catalogValidator, authorizationGate, appLogger)
	shortenerService := service.NewShortenerService(orderRepo, appLogger)

	// Initialize handlers
	orderHandler := handler.NewOrderHandler(orderService, jwtSecret, appLogger)
	shortenerHandler := handler.NewShortenerHandler(shortenerService, appLogger)

	mux := router.NewRouter(orderHandler, shortenerHandler)
	httpHandler := appLogger.HTTPMiddleware(mux)

	initialPort := flagConfig.Port
	if initialPort == "" {
		initialPort = envconfig.GetEnv("PORT", "8080")
	}
	host := envconfig.GetEnv("HOST", "localhost")

	port := initialPort

	server := &http.Server{
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		server.Addr = host + ":" + port

		go func() {
			appLogger.Info("Starting HTTP server",
				"host", host,
				"port", port,
				"address", server.Addr)

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.Error("Server error", "error", err)
				serverErrors <- err
			}
		}()

		select {
		case err := <-serverErrors:
			if strings.Contains(err.Error(), "address already in use") && i < maxRetries-1 {
				portNum := 8080 + i + 1
				port = fmt.Sprintf("%d", portNum)
				appLogger.Warn("Port already in use, trying alternative port",
					"current_port", server.Addr,
					"next_port", port)
				continue
			} else {
				appLogger.Error("Failed to start server after retries", "error", err)
				return
			}
		case <-time.After(200 * time.Millisecond):
			appLogger.Info("Server started successfully", "port", port)
		}

		break
	}

	select {
	case err := <-serverErrors:
		appLogger.Error("Could not start server", "error", err)
		return
	default:
		shutdownsetup.SetupGracefulShutdown(server, appLogger)
	}
}
