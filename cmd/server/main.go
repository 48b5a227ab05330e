package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/primo-pizza/internal/adapter/handler"
	"github.com/rl1809/primo-pizza/internal/adapter/handler/pb"
	"github.com/rl1809/primo-pizza/internal/adapter/messaging"
	"github.com/rl1809/primo-pizza/internal/adapter/storage"
	"github.com/rl1809/primo-pizza/internal/config"
	"github.com/rl1809/primo-pizza/internal/core/service"
	"github.com/rl1809/primo-pizza/internal/core/session"
	"github.com/rl1809/primo-pizza/internal/logging"
	"github.com/rl1809/primo-pizza/internal/metrics"
	"github.com/rl1809/primo-pizza/internal/port"
)

const sweepInterval = 10 * time.Minute

type store interface {
	port.DocumentStore
	port.IdempotencyGuard
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore.Close()

	if err := service.Bootstrap(ctx, st, time.Now()); err != nil {
		logger.Fatal("seed store", zap.Error(err))
	}

	var publisher port.EventPublisher = messaging.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		rabbit, err := messaging.DialRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Fatal("connect rabbitmq", zap.Error(err))
		}
		defer rabbit.Close()
		publisher = rabbit
		logger.Info("connected to rabbitmq", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	events := service.NewEventDispatcher(publisher, cfg.Orders.EventQueueSize, m, logger)
	events.Start(cfg.Orders.EventWorkers)

	svc := service.New(service.Deps{
		Store:   st,
		Guard:   st,
		Events:  events,
		Metrics: m,
		Logger:  logger,
		Orders: service.OrderOptions{
			StrictTransitions: cfg.Orders.StrictTransitions,
			NormalizePhones:   cfg.Orders.NormalizePhones,
			IdempotencyTTL:    cfg.Orders.IdempotencyTTL,
		},
	})

	sessions := session.NewManager(svc, session.DefaultIdleTTL, logger)
	go sweepSessions(ctx, sessions, logger)

	var grpcServer *grpc.Server
	if cfg.GRPC.Enabled {
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(handler.AdminAuthInterceptor(cfg.HTTP.AdminToken)))
		pb.RegisterStorefrontServer(grpcServer, handler.NewGRPCHandler(svc, logger))

		healthServer := health.NewServer()
		healthServer.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(grpcServer, healthServer)

		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			logger.Fatal("listen grpc", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
		}
		go func() {
			logger.Info("gRPC server listening", zap.String("addr", cfg.GRPC.Addr))
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", zap.Error(err))
			}
		}()
	}

	router := handler.NewHTTPHandler(svc, sessions, st, logger).Routes(cfg.HTTP.AdminToken)
	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown", zap.Error(err))
	}
	logger.Info("HTTP server stopped")

	if grpcServer != nil {
		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")
	}

	// Drains queued events before the publisher and store are closed.
	events.Close()
	logger.Info("event workers stopped")
}

// openStore connects the configured backend. The returned closer releases
// its connections.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (store, io.Closer, error) {
	switch cfg.Driver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		return storage.NewMemoryStore(), nopCloser{}, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		return storage.NewRedisStore(rdb, cfg.KeyPrefix), rdb, nil

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}
		st := storage.NewMySQLStore(db, cfg.KeyPrefix)
		if err := st.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate mysql: %w", err)
		}
		logger.Info("connected to mysql")
		return st, db, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func sweepSessions(ctx context.Context, sessions *session.Manager, logger *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				logger.Debug("expired idle sessions", zap.Int("count", n))
			}
		}
	}
}
