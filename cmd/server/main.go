package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/movie-collection/internal/config"
	"github.com/iliyamo/movie-collection/internal/database"
	"github.com/iliyamo/movie-collection/internal/handler"
	"github.com/iliyamo/movie-collection/internal/metadata"
	"github.com/iliyamo/movie-collection/internal/middleware"
	"github.com/iliyamo/movie-collection/internal/queue"
	"github.com/iliyamo/movie-collection/internal/repository"
	"github.com/iliyamo/movie-collection/internal/router"
	"github.com/iliyamo/movie-collection/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("read .env")
	}
	cfg := config.Load()
	setupLogging(cfg)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(context.Background(), db, cfg.DBDriver); err != nil {
		log.Fatal().Err(err).Msg("create tables")
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb != nil {
		defer rdb.Close()
	}

	resolver := newResolver(cfg, rdb)
	events := newPublisher(cfg)
	defer events.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.RunConsumer {
		go func() {
			if err := queue.StartActivityConsumer(ctx, cfg.RabbitURL, cfg.ActivityLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("activity consumer stopped")
			}
		}()
	}

	h := handler.NewCollectionHandler(cfg, repository.NewUserRepo(db), repository.NewMovieRepo(db), resolver, events)
	limiter := middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb)
	e, err := router.New(h, limiter)
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func newResolver(cfg config.Config, rdb *redis.Client) *metadata.Resolver {
	var opts []metadata.Option
	if cfg.OMDbAPIKey != "" {
		opts = append(opts, metadata.WithSource(metadata.NewOMDbClient(cfg.OMDbURL, cfg.OMDbAPIKey, cfg.OMDbTimeout)))
		cacheCfg := config.LoadLookupCacheConfig()
		if rdb != nil && cacheCfg.Enabled {
			opts = append(opts, metadata.WithCache(metadata.NewRedisCache(rdb, cacheCfg.Prefix, cacheCfg.TTL)))
		}
	} else {
		log.Info().Msg("OMDB_API_KEY not set; external metadata lookup disabled")
	}
	return metadata.NewResolver(opts...)
}

func newPublisher(cfg config.Config) service.Publisher {
	switch cfg.EventsBroker {
	case "rabbitmq":
		return service.NewRabbitPublisher(cfg.RabbitURL)
	case "kafka":
		return service.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return service.NopPublisher{}
	}
}
