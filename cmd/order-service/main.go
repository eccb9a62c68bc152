package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rishabh1623/shopmetrics/internal/adapters/transport/http/middleware"
	"github.com/Rishabh1623/shopmetrics/internal/infra/config"
	lg "github.com/Rishabh1623/shopmetrics/internal/infra/log"
	"github.com/Rishabh1623/shopmetrics/internal/infra/migrate"
	"github.com/Rishabh1623/shopmetrics/internal/metrics"
	"github.com/Rishabh1623/shopmetrics/internal/order"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		zapLog.Fatal("parse database url", zap.Error(err))
	}
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// migrations run over a database/sql handle from the same config;
	// simple protocol because the migration files are multi-statement
	migrateCfg := poolCfg.ConnConfig.Copy()
	migrateCfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	migrateDB := stdlib.OpenDB(*migrateCfg)
	if err := migrate.Up(migrateDB, "order"); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}
	migrateDB.Close()

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrder(reg)
	httpMetrics := metrics.NewHTTP(reg)
	poolMetrics := metrics.NewDBPool(reg)
	poolMetrics.Max.Set(float64(poolCfg.MaxConns))

	repo := order.NewPgxRepo(pool)
	cache := order.NewCartCache(redisCli)
	publisher := order.NewRedisPublisher(redisCli)
	handler := order.NewHandler(repo, cache, publisher, pool, orderMetrics, zapLog)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zapLog))
	router.Use(middleware.Metrics(httpMetrics))
	handler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("order service starting", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				poolMetrics.Active.Set(float64(pool.Stat().AcquiredConns()))
			}
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
