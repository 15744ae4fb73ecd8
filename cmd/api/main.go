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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/gestaozabele/midia/internal/asset"
	"github.com/gestaozabele/midia/internal/auth"
	"github.com/gestaozabele/midia/internal/config"
	"github.com/gestaozabele/midia/internal/configuration"
	"github.com/gestaozabele/midia/internal/db"
	internalhttp "github.com/gestaozabele/midia/internal/http"
	"github.com/gestaozabele/midia/internal/logging"
	"github.com/gestaozabele/midia/internal/media"
	"github.com/gestaozabele/midia/internal/metrics"
	"github.com/gestaozabele/midia/internal/pathinfo"
	"github.com/gestaozabele/midia/internal/regen"
	"github.com/gestaozabele/midia/internal/storage"
	"github.com/gestaozabele/midia/internal/variant"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	blobs, err := newBlobStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	checks := map[string]internalhttp.PingFunc{"db": pool.Ping}

	var publisher regen.Publisher
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		publisher = regen.NewRedisPublisher(redisClient, regen.RedisConfig{
			Queue:    cfg.Regen.Queue,
			DedupTTL: cfg.Regen.DedupTTL,
			Attempts: uint(cfg.Regen.RetryAttempts),
		}, logging.Component(logger, "regen"))
	} else {
		logger.Warn().Msg("REDIS_URL ausente: pedidos de regeneração serão apenas registrados")
		publisher = regen.NewLogPublisher(logging.Component(logger, "regen"))
	}

	dispatcher := regen.NewDispatcher(publisher, cfg.Regen.Buffer, logging.Component(logger, "regen"), m)

	configurations := configuration.NewService(configuration.NewRepository(pool), cfg.ConfigCacheTTL, m)
	assets := asset.NewService(asset.NewRepository(pool), blobs, dispatcher, logging.Component(logger, "asset"))
	variants := variant.NewService(variant.NewRepository(pool), blobs)

	resolver := media.NewRequestResolver(
		pathinfo.NewInterpreter(assets),
		configurations,
		variant.NewFinder(pool, blobs),
		dispatcher,
		media.WithLogger(logging.Component(logger, "media")),
		media.WithMetrics(m),
	)

	handler := internalhttp.NewRouter(internalhttp.Deps{
		Config:         cfg,
		Resolver:       resolver,
		Configurations: configurations,
		Assets:         assets,
		Variants:       variants,
		JWT:            auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL),
		Checks:         checks,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:         logging.Component(logger, "http"),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	dispatcher.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Msgf("API ouvindo em :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("encerrando...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		dispatcher.Stop()
		return err
	})

	return g.Wait()
}

func newBlobStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Provider {
	case "", "noop":
		return storage.NoopStore{}, nil
	case "memory":
		return storage.NewMemoryStore(), nil
	case "s3", "r2":
		s3, err := storage.NewS3Store(storage.S3Config{
			Endpoint:     cfg.Endpoint,
			Region:       cfg.Region,
			Bucket:       cfg.Bucket,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
			PublicDomain: cfg.PublicDomain,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("provedor %s não suportado", cfg.Provider)
	}
}
