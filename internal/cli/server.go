package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"iq-quiz-service/internal/app"
	"iq-quiz-service/internal/config"
	"iq-quiz-service/internal/infra/memory"
	pgstore "iq-quiz-service/internal/infra/postgres"
	redisstore "iq-quiz-service/internal/infra/redis"
	"iq-quiz-service/internal/infra/sqlite"
	transport "iq-quiz-service/internal/transport/http"
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
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	results, closeResults, err := openResultStore(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeResults()

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 15*time.Minute))
	} else {
		sessions = memory.NewSessionStore()
	}

	duration := config.TTLDuration(cfg.Quiz.Duration, app.DefaultDuration)
	service := app.NewQuizService(sessions, results, duration)

	secret := cfg.Identity.Secret
	if env := os.Getenv("IDENTITY_SECRET"); env != "" {
		secret = env
	}
	if secret == "" {
		return errors.New("identity secret not configured")
	}

	router := transport.NewRouter(
		transport.NewIdentity(secret),
		transport.NewWSHandler(service),
		transport.NewResultHandler(results, app.PresenterConfig{
			LoadDelay:  config.TTLDuration(cfg.Presenter.LoadDelay, app.DefaultLoadDelay),
			PaymentURL: cfg.Paywall.PaymentURL,
		}),
		transport.RouterConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			ClientUnlock:   cfg.Paywall.ClientUnlock,
		},
	)
	if cfg.Paywall.ClientUnlock {
		log.Printf("paywall client unlock enabled: results unlock without payment verification")
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting quiz service on :%s (results: %s, quiz duration %s)", finalPort, cfg.ResultsBackend(), duration)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openResultStore builds the configured result backend and a cleanup func.
func openResultStore(ctx context.Context, cfg config.Config, redisClient *redis.Client) (app.ResultStore, func(), error) {
	noop := func() {}
	switch backend := cfg.ResultsBackend(); backend {
	case "memory":
		return memory.NewResultStore(), noop, nil
	case "redis":
		if redisClient == nil {
			return nil, nil, errors.New("redis results backend selected but redis addr not configured")
		}
		return redisstore.NewResultStore(redisClient, config.TTLDuration(cfg.Redis.ResultTTL, 0)), noop, nil
	case "postgres":
		if cfg.Postgres.URL == "" {
			return nil, nil, errors.New("postgres url not configured")
		}
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewResultStore(pool), pool.Close, nil
	case "sqlite":
		path := cfg.SQLite.Path
		if path == "" {
			path = "quiz_results.db"
		}
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown results backend %q", backend)
	}
}
