package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"swag-quiz-service/internal/app"
	"swag-quiz-service/internal/catalog"
	"swag-quiz-service/internal/config"
	"swag-quiz-service/internal/infra/memory"
	"swag-quiz-service/internal/infra/postgres"
	redisstore "swag-quiz-service/internal/infra/redis"
	"swag-quiz-service/internal/infra/sqlite"
	"swag-quiz-service/internal/lead"
	transport "swag-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// resources collects connections opened while wiring so they can be closed in
// reverse order on shutdown.
type resources struct {
	closers []func()
}

func (r *resources) add(fn func()) { r.closers = append(r.closers, fn) }

func (r *resources) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	res := &resources{}
	defer res.close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		res.add(func() { _ = redisClient.Close() })
	}

	store, err := buildResultStore(ctx, cfg, redisClient, res, logger)
	if err != nil {
		return err
	}
	catalogs, err := buildCatalogSource(ctx, cfg, redisClient, res, logger)
	if err != nil {
		return err
	}

	feed := app.NewFeed(32)
	service := app.NewQuizService(store, catalogs,
		app.WithFeed(feed),
		app.WithLogger(logger),
	)

	notifier := lead.NewNotifier(lead.LogSink(logger), logger, cfg.Leads.Workers, cfg.Leads.Queue)
	res.add(notifier.Close)

	handler := transport.NewHandler(service, notifier, transport.NewWSHandler(feed, logger), logger)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           handler.Router(cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,

		// No WriteTimeout: websocket streams set their own write deadlines.
		IdleTimeout: 60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting quiz service",
			"port", finalPort,
			"store", cfg.Store.Backend,
			"catalog", cfg.Catalog.Source,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildResultStore(ctx context.Context, cfg config.Config, redisClient *redis.Client, res *resources, logger *slog.Logger) (app.ResultStore, error) {
	switch cfg.Store.Backend {
	case "", config.StoreMemory:
		return memory.NewResultStore(), nil
	case config.StoreRedis:
		if redisClient == nil {
			return nil, errors.New("store backend redis requires redis.addr")
		}
		ttl := config.TTLDuration(cfg.Redis.TTL, 0)
		return redisstore.NewResultStore(redisClient, ttl), nil
	case config.StorePostgres:
		if cfg.Postgres.URL == "" {
			return nil, errors.New("store backend postgres requires postgres.url")
		}
		db := postgres.OpenDB(cfg.Postgres.URL)
		res.add(func() { _ = db.Close() })
		group, err := postgres.Migrate(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		if !group.IsZero() {
			logger.Info("migrations applied", "group", group.String())
		}
		return postgres.NewResultStore(db), nil
	case config.StoreSQLite:
		store, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		res.add(func() { _ = store.Close() })
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func buildCatalogSource(ctx context.Context, cfg config.Config, redisClient *redis.Client, res *resources, logger *slog.Logger) (app.CatalogSource, error) {
	switch cfg.Catalog.Source {
	case "", config.CatalogStatic:
		return memory.NewStaticCatalog(catalog.Default()), nil
	case config.CatalogPostgres:
		if cfg.Postgres.URL == "" {
			return nil, errors.New("catalog source postgres requires postgres.url")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect catalog pool: %w", err)
		}
		res.add(pool.Close)

		loader := postgres.NewCatalogLoader(pool)
		ttl := config.TTLDuration(cfg.Catalog.TTL, 5*time.Minute)
		if redisClient != nil {
			logger.Debug("catalog cached in redis", "ttl", ttl)
			return redisstore.NewCatalogCache(redisClient, loader, ttl), nil
		}
		return memory.NewCatalogCache(loader, ttl), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}
