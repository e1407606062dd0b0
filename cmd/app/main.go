package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"yonexus/config"
	"yonexus/internal/application/auth"
	"yonexus/internal/application/tracker"
	"yonexus/internal/infrastructure/cache"
	"yonexus/internal/infrastructure/database"
	"yonexus/internal/infrastructure/oracle"
	"yonexus/internal/infrastructure/repository"
	"yonexus/internal/infrastructure/security"
	"yonexus/internal/leveltable"
	"yonexus/internal/middleware"
	grpc_server "yonexus/internal/transport/grpc"
	handlers "yonexus/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}

	db, err := database.Open(cfg.DBDriver, cfg.DSN(), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis at", cfg.RedisAddr)

	table, err := leveltable.Load(cfg.LevelTablePath)
	if err != nil {
		log.Fatalf("Failed to load level table: %v", err)
	}

	var characterCache oracle.Cache
	switch cfg.OracleCache {
	case "redis":
		characterCache = cache.NewCharacterCache(rdb, cfg.OracleCacheTTL)
	default:
		characterCache = oracle.NewMemoryCache(cfg.OracleCacheSize)
	}
	registry := oracle.New(
		oracle.NewClient(cfg.TibiaDataURL, &http.Client{}),
		characterCache,
		oracle.Config{MaxAttempts: cfg.OracleMaxAttempts, Timeout: cfg.OracleTimeout},
	)

	characterRepo := repository.NewCharacterRepository(db)
	xpLogRepo := repository.NewXpLogRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	trackerSvc := tracker.NewService(characterRepo, xpLogRepo, registry, table,
		tracker.WithLocation(loc),
		tracker.WithDefaultDailyGoal(cfg.DefaultDailyGoal),
	)
	authSvc := auth.NewAuthUseCase(
		accountRepo,
		cache.NewTokenCache(rdb),
		security.NewPasswordHasher(),
		security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret),
		trackerSvc,
	)

	router := handlers.NewRouter(
		handlers.NewAuthHandler(authSvc, cfg.CookieSecure),
		handlers.NewCharacterHandler(trackerSvc, authSvc),
		middleware.NewRateLimiter(rdb, map[string]middleware.RatePolicy{
			middleware.RouteLogin: {Limit: cfg.LoginRateLimit, Window: cfg.LoginRateWindow},
		}),
		authSvc,
		cfg.Origins(),
	)
	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", cfg.GRPCPort, err)
	}
	grpcServer := grpc.NewServer()
	grpc_server.RegisterTrackerServiceServer(grpcServer, grpc_server.NewTrackerServer(trackerSvc))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpc_server.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		log.Printf("Tracker gRPC service running on %s", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()
	go func() {
		log.Printf("HTTP API running on %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	_ = rdb.Close()
}
