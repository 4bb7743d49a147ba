package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/inventory-store/internal/adapter/handler"
	"github.com/rl1809/inventory-store/internal/adapter/messaging"
	"github.com/rl1809/inventory-store/internal/adapter/storage"
	"github.com/rl1809/inventory-store/internal/config"
	"github.com/rl1809/inventory-store/internal/core/service"
	"github.com/rl1809/inventory-store/internal/observability"
	"github.com/rl1809/inventory-store/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// openRepositoryFunc is replaced in tests.
var openRepositoryFunc = openRepository

func run(cfg *config.Config, logger *zap.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracing, err := observability.SetupTracing(ctx, cfg)
	if err != nil {
		return err
	}

	repo, closeRepo, err := openRepositoryFunc(ctx, cfg, logger)
	if err != nil {
		return errors.Join(err, shutdownTracing(context.Background()))
	}

	var publisher port.EventPublisher = messaging.NopPublisher{}
	if cfg.KafkaBroker != "" {
		publisher = messaging.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		logger.Info("publishing item events", zap.String("broker", cfg.KafkaBroker), zap.String("topic", cfg.KafkaTopic))
	}

	// Close connections on every return path, including a failed listen.
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		err = errors.Join(
			err,
			publisher.Close(),
			closeRepo(),
			shutdownTracing(closeCtx),
		)
	}()

	inventoryService := service.NewInventoryService(repo, publisher, logger, tracer)

	// Initialize gRPC server
	var grpcServer *grpc.Server
	if cfg.GRPCAddr != "" {
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(handler.LoggingInterceptor(logger)))
		handler.RegisterInventoryServiceServer(grpcServer, handler.NewGRPCHandler(inventoryService))

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}

		go func() {
			logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP server
	var httpServer *http.Server
	if cfg.HTTPAddr != "" {
		httpServer = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler.NewHTTPHandler(inventoryService, logger).Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown", zap.Error(err))
		}
		logger.Info("HTTP server stopped")
	}

	if grpcServer != nil {
		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")
	}

	return nil
}

// openRepository connects the configured backend and returns it with its close func.
func openRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.ItemRepository, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return nil, nil, fmt.Errorf("create db dir %s: %w", dir, err)
			}
		}
		db, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		logger.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
		return storage.NewSQLiteAdapter(db), db.Close, nil

	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mysql: %w", err)
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}
		if err := storage.RunMigrations(ctx, db, "mysql"); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("connected to mysql")
		return storage.NewMySQLAdapter(db), db.Close, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		return storage.NewRedisAdapter(rdb), rdb.Close, nil

	default:
		logger.Info("using in-memory store")
		return storage.NewMemoryAdapter(), func() error { return nil }, nil
	}
}
