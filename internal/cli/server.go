package cli

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gameshot-quiz-service/internal/app"
	"gameshot-quiz-service/internal/catalog"
	"gameshot-quiz-service/internal/config"
	"gameshot-quiz-service/internal/infra/memory"
	pgcatalog "gameshot-quiz-service/internal/infra/postgres"
	redisstore "gameshot-quiz-service/internal/infra/redis"
	sqlitestore "gameshot-quiz-service/internal/infra/sqlite"
	"gameshot-quiz-service/internal/roundclient"
	transport "gameshot-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	store, closeStore, err := openBlobStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	rounds, closeRounds, err := openRounds(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRounds()

	game := app.NewGameService(store, rounds, app.GameConfig{
		MaxRounds:   cfg.Quiz.MaxRounds,
		OptionCount: cfg.Quiz.OptionCount,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", transport.Healthz)
	mux.Handle("/api/round", transport.NewRoundHandler(rounds, cfg.Quiz.OptionCount))
	mux.HandleFunc("/ws", transport.NewWSHandler(game).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.LogRequests(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Str("rounds", cfg.Rounds.Source).Int("maxRounds", game.MaxRounds()).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openBlobStore picks the session store: Redis, then SQLite, then process memory.
func openBlobStore(ctx context.Context, cfg config.Config) (app.BlobStore, func(), error) {
	switch {
	case cfg.Redis.Addr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ttl := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("sessions stored in redis")
		return redisstore.NewBlobStore(client, ttl), func() { _ = client.Close() }, nil
	case cfg.SQLite.Path != "":
		store, err := sqlitestore.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("sessions stored in sqlite")
		return store, func() { _ = store.Close() }, nil
	default:
		log.Warn().Msg("sessions stored in memory and lost on restart")
		return memory.NewBlobStore(), func() {}, nil
	}
}

// openRounds builds the round source: a remote instance, or a selector over the
// catalog loaded from Postgres, a JSON export or the built-in sample.
func openRounds(ctx context.Context, cfg config.Config) (app.RoundFetcher, func(), error) {
	if cfg.Rounds.Source == config.RoundsRemote {
		timeout := config.TTLDuration(cfg.Rounds.Timeout, 5*time.Second)
		log.Info().Str("url", cfg.Rounds.RemoteURL).Dur("timeout", timeout).Msg("rounds fetched remotely")
		return roundclient.New(cfg.Rounds.RemoteURL, timeout, roundclient.WithRetries(uint64(*cfg.Rounds.Retries))), func() {}, nil
	}

	closeFn := func() {}
	var loader memory.CatalogLoader
	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		closeFn = pool.Close
		loader = pgcatalog.NewCatalogLoader(pool)
	case fileExists(cfg.Catalog.Path):
		loader = memory.NewFileCatalogLoader(cfg.Catalog.Path)
	default:
		log.Warn().Str("path", cfg.Catalog.Path).Msg("no catalog configured, using the built-in sample")
		loader = memory.NewStaticCatalogLoader(sampleCatalog())
	}

	cat, err := memory.NewCatalogRepository(loader).Catalog(ctx)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	selector := catalog.NewSelector(cat, rand.New(rand.NewSource(time.Now().UnixNano())), catalog.SelectorConfig{
		MinYear:       cfg.Quiz.MinYear,
		MaxYear:       cfg.Quiz.MaxYear,
		HighRating:    cfg.Quiz.HighRating,
		RelaxedRating: cfg.Quiz.RelaxedRating,
	})
	return app.NewLocalRounds(selector), closeFn, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
