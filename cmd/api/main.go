package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/danukay/stocktrack-service/config"
	"github.com/danukay/stocktrack-service/internal/pkg/broker"
	"github.com/danukay/stocktrack-service/internal/pkg/cache"
	"github.com/danukay/stocktrack-service/internal/pkg/database"
	"github.com/danukay/stocktrack-service/internal/pkg/logger"
	"github.com/danukay/stocktrack-service/internal/pkg/search"
	"github.com/danukay/stocktrack-service/internal/server"

	inflowH "github.com/danukay/stocktrack-service/internal/inflow/handler"
	inflowRepoPkg "github.com/danukay/stocktrack-service/internal/inflow/repository"
	inflowUCPkg "github.com/danukay/stocktrack-service/internal/inflow/usecase"

	orderH "github.com/danukay/stocktrack-service/internal/order/handler"
	orderRepoPkg "github.com/danukay/stocktrack-service/internal/order/repository"
	orderUCPkg "github.com/danukay/stocktrack-service/internal/order/usecase"

	prodH "github.com/danukay/stocktrack-service/internal/product/handler"
	prodRepoPkg "github.com/danukay/stocktrack-service/internal/product/repository"
	prodUCPkg "github.com/danukay/stocktrack-service/internal/product/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if err := database.Migrate(context.Background(), db); err != nil {
		appLogger.Fatal("Could not run migrations", zap.Error(err))
	}

	// 4. Initialize Redis (optional: caching only)
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis (caching disabled)", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Kafka Producer (optional: movement events)
	var producer *broker.Producer
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Brokers[0] != "" {
		producer = broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()
		appLogger.Info("Kafka producer ready",
			zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 6. Initialize Elasticsearch (optional: product search)
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (search features limited)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Initialize Repositories
	prodRepo := prodRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	inflowRepo := inflowRepoPkg.NewPGRepository(db)
	txManager := database.NewTxManager(db)

	// 8. Initialize UseCases
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, prodRepo, txManager, producer, appLogger)
	inflowUC := inflowUCPkg.NewInflowUseCase(inflowRepo, prodRepo, txManager, producer, appLogger)

	// 9. Initialize Handlers + Router
	prodHandler := prodH.NewProductHandler(prodUC, appLogger)
	orderHandler := orderH.NewOrderHandler(orderUC, appLogger)
	inflowHandler := inflowH.NewInflowHandler(inflowUC, appLogger)

	router := server.NewRouter(prodHandler, orderHandler, inflowHandler)

	// 10. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	appLogger.Info("Server stopped")
}
