package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bazarlab/marketplace-service/config"
	"github.com/bazarlab/marketplace-service/internal/attribute"
	attrRepoPkg "github.com/bazarlab/marketplace-service/internal/attribute/repository"
	"github.com/bazarlab/marketplace-service/internal/auth"
	"github.com/bazarlab/marketplace-service/internal/listing"
	"github.com/bazarlab/marketplace-service/internal/server"
	"github.com/bazarlab/marketplace-service/migrations"
	"github.com/bazarlab/marketplace-service/pkg/broker"
	"github.com/bazarlab/marketplace-service/pkg/cache"
	"github.com/bazarlab/marketplace-service/pkg/database/postgres"
	"github.com/bazarlab/marketplace-service/pkg/i18n"
	"github.com/bazarlab/marketplace-service/pkg/logger"
	"github.com/bazarlab/marketplace-service/pkg/search"

	catH "github.com/bazarlab/marketplace-service/internal/category/handler"
	catListenerPkg "github.com/bazarlab/marketplace-service/internal/category/listener"
	catRepoPkg "github.com/bazarlab/marketplace-service/internal/category/repository"
	catUCPkg "github.com/bazarlab/marketplace-service/internal/category/usecase"

	locH "github.com/bazarlab/marketplace-service/internal/location/handler"
	locRepoPkg "github.com/bazarlab/marketplace-service/internal/location/repository"
	locUCPkg "github.com/bazarlab/marketplace-service/internal/location/usecase"

	listH "github.com/bazarlab/marketplace-service/internal/listing/handler"
	listRepoPkg "github.com/bazarlab/marketplace-service/internal/listing/repository"
	listUCPkg "github.com/bazarlab/marketplace-service/internal/listing/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
		File:              cfg.Logger.File,
		MaxSizeMB:         cfg.Logger.MaxSizeMB,
		MaxBackups:        cfg.Logger.MaxBackups,
		MaxAgeDays:        cfg.Logger.MaxAgeDays,
	})
	defer appLogger.Sync()

	// 3. i18n
	i18n.Init()
	for _, path := range cfg.I18n.ExtraCatalogs {
		if err := i18n.Load(path); err != nil {
			appLogger.Warn("Failed to load message catalog", zap.String("path", path), zap.Error(err))
		}
	}

	// 4. Database
	db, err := postgres.NewPostgres(&postgres.Config{
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

	if cfg.Postgres.AutoMigrate {
		applied, err := postgres.Migrate(context.Background(), db, migrations.FS)
		if err != nil {
			appLogger.Fatal("Could not apply migrations", zap.Error(err))
		}
		appLogger.Info("Applied migrations", zap.Strings("files", applied))
	}

	retry := postgres.RetryPolicy{
		Attempts: cfg.Postgres.WriteRetries,
		Backoff:  time.Duration(cfg.Postgres.RetryBackoffMS) * time.Millisecond,
	}

	// 5. Repositories
	catRepo := catRepoPkg.NewPGRepository(db, cfg.Taxonomy.MaxDepth)
	attrRepo := attrRepoPkg.NewPGRepository(db)
	locRepo := locRepoPkg.NewPGRepository(db)
	listRepo := listRepoPkg.NewPGRepository(db, retry)

	// 6. Optional infrastructure. A disabled or unreachable dependency
	// degrades the matching feature instead of stopping the service.
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	var events listing.EventPublisher
	var taxonomyConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.ListingsTopic,
		})
		defer producer.Close()
		events = producer

		taxonomyConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.TaxonomyTopic,
			GroupID: cfg.Kafka.TaxonomyGroup,
		})
		defer taxonomyConsumer.Close()
		appLogger.Info("Kafka configured", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	var searchIndex listing.SearchIndex
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search sync disabled", zap.Error(err))
		} else {
			searchIndex = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := listUCPkg.EnsureSearchIndex(ctx, searchIndex, cfg.Elastic.Index); err != nil {
		appLogger.Warn("Could not create listing index", zap.String("index", cfg.Elastic.Index), zap.Error(err))
	}

	// 7. UseCases
	resolver := attribute.NewResolver(catRepo, attrRepo)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, resolver, redisClient, catUCPkg.Options{
		MediaBaseURL: cfg.Taxonomy.MediaBaseURL,
		MaxDepth:     cfg.Taxonomy.MaxDepth,
		CacheTTL:     time.Duration(cfg.Redis.TTLSec) * time.Second,
	}, appLogger)
	locUC := locUCPkg.NewLocationUseCase(locRepo, appLogger)
	listUC := listUCPkg.NewListingUseCase(listUCPkg.Deps{
		Repo:        listRepo,
		Categories:  catRepo,
		Locations:   locRepo,
		Resolver:    resolver,
		Events:      events,
		Search:      searchIndex,
		SearchIndex: cfg.Elastic.Index,
	}, appLogger)

	// 8. Listeners
	if taxonomyConsumer != nil {
		go catListenerPkg.NewTaxonomyListener(taxonomyConsumer, catUC, appLogger).Start(ctx)
	}

	// 9. HTTP server
	jwtMgr := auth.NewJWTManager(auth.JWTConfig{
		Issuer:    cfg.JWT.Issuer,
		SecretKey: cfg.JWT.SecretKey,
	})
	router := server.NewRouter(server.Handlers{
		Categories: catH.NewCategoryHandler(catUC, appLogger),
		Locations:  locH.NewLocationHandler(locUC, appLogger),
		Listings:   listH.NewListingHandler(listUC, appLogger),
	}, jwtMgr, appLogger)

	httpServer := &http.Server{
		Addr:              withColon(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 10. gRPC health endpoint for orchestrators
	grpcPort := withColon(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func withColon(port string) string {
	if !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}
