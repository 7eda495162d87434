// @title        Shipment Dashboard API
// @version      1.0
// @description  Reconciled shipment collection with filtering, bulk operations, analytics and CSV export.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/shipment-dashboard/internal/api"
	"github.com/99minutos/shipment-dashboard/internal/api/handler"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
	"github.com/99minutos/shipment-dashboard/internal/core/service"
	mongodb "github.com/99minutos/shipment-dashboard/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/shipment-dashboard/internal/infrastructure/db/redis"
	"github.com/99minutos/shipment-dashboard/internal/infrastructure/geo"
	"github.com/99minutos/shipment-dashboard/internal/infrastructure/notify"
	"github.com/99minutos/shipment-dashboard/internal/infrastructure/queue"
	"github.com/99minutos/shipment-dashboard/internal/pkg/config"
	"github.com/99minutos/shipment-dashboard/pkg/logger"
)

const (
	shutdownTimeout  = 15 * time.Second
	resubscribeDelay = 5 * time.Second
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "shipment-dashboard",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	repo := mongodb.NewShipmentRepository(db, log)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("shipment indexes")
	}
	updateLog := mongodb.NewUpdateLogRepository(db)
	if err := updateLog.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("update log indexes")
	}

	svc := service.NewShipmentService(service.NewStore(), service.Deps{
		Repo:      repo,
		UpdateLog: updateLog,
		Notifier: notify.Fanout{
			notify.NewLogNotifier(log),
			notify.NewRedisPublisher(redisClient, cfg.Redis.NotifyChannel, log),
		},
		Locator:     geo.NewSimulated(uint64(time.Now().UnixNano())),
		Idempotency: redisdb.NewIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL),
	}, service.Options{
		TransitDays:     cfg.Shipments.DefaultTransitDays,
		BulkConcurrency: cfg.Shipments.BulkConcurrency,
	}, log)

	if err := svc.Refresh(ctx); err != nil {
		// The store stays empty; a later refresh or the feed fills it.
		log.Error().Err(err).Msg("initial load failed")
	}

	dispatcher := queue.NewDispatcher(cfg.Shipments.FeedBuffer, svc, log)
	// The worker outlives the signal context so Shutdown can drain it.
	dispatcher.Start(context.WithoutCancel(ctx))

	e := api.NewRouter(api.Deps{
		Service: svc,
		Checks: map[string]handler.Check{
			"mongo": mongodb.Pinger(mongoClient),
			"redis": redisdb.Pinger(redisClient),
		},
		Log: log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		followFeed(gctx, mongodb.NewChangeFeed(db, log), dispatcher, svc, log)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
		if err := dispatcher.Shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("feed dispatcher did not drain in time")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}

// followFeed keeps a change-feed subscription open until ctx ends. A feed
// cannot resume from where it broke, so every resubscription is preceded by a
// full refresh.
func followFeed(ctx context.Context, feed ports.ChangeFeed, d *queue.Dispatcher, svc *service.ShipmentService, log zerolog.Logger) {
	for {
		err := feed.Run(ctx, func(ev ports.ChangeEvent) { d.Enqueue(ev) })
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Dur("retry_in", resubscribeDelay).Msg("change feed stopped")

		select {
		case <-ctx.Done():
			return
		case <-time.After(resubscribeDelay):
		}
		if err := svc.Refresh(ctx); err != nil {
			log.Error().Err(err).Msg("refresh before resubscribe failed")
		}
	}
}
