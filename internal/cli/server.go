package cli

import (
	"context"
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

	"navigator-profiler/internal/app"
	"navigator-profiler/internal/config"
	"navigator-profiler/internal/infra/memory"
	infraopenai "navigator-profiler/internal/infra/openai"
	infrapostgres "navigator-profiler/internal/infra/postgres"
	infraredis "navigator-profiler/internal/infra/redis"
	"navigator-profiler/internal/report"
	transport "navigator-profiler/internal/transport/http"
)

const version = "1.0.0"

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the assessment API server",
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

	store, storeKind, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	narrativeTimeout := config.TTLDuration(cfg.OpenAI.Timeout, 30*time.Second)
	var narrative report.NarrativeGenerator
	var namer app.NicknameGenerator = app.NewWordBankNamer()
	narrativeEnabled := cfg.OpenAI.BaseURL != "" && cfg.OpenAI.APIKey != ""
	if narrativeEnabled {
		narrative = infraopenai.NewNarrative(infraopenai.Config{
			BaseURL: cfg.OpenAI.BaseURL,
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.ReportModel,
			Timeout: narrativeTimeout,
		})
		if cfg.OpenAI.NicknameModel != "" {
			namer = infraopenai.NewNamer(infraopenai.Config{
				BaseURL: cfg.OpenAI.BaseURL,
				APIKey:  cfg.OpenAI.APIKey,
				Model:   cfg.OpenAI.NicknameModel,
				Timeout: narrativeTimeout,
			})
		}
	}

	assembler := report.NewAssembler(narrative, narrativeTimeout)
	service := app.NewAssessmentService(store, assembler, namer)
	handler := transport.NewHandler(service, transport.HealthInfo{
		Version:          version,
		StoreKind:        storeKind,
		NarrativeEnabled: narrativeEnabled,
		Environment:      os.Getenv("APP_ENV"),
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(cfg.Server.Origins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("starting navigator-profiler (%s store) on :%s", storeKind, finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildStore(ctx context.Context, cfg config.Config) (app.SessionStore, string, func(), error) {
	noop := func() {}
	switch cfg.Store.Kind {
	case "", "memory":
		return memory.NewSessionStore(), "memory", noop, nil

	case "redis":
		if cfg.Redis.Addr == "" {
			return nil, "", noop, fmt.Errorf("redis addr not configured")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ttl := config.TTLDuration(cfg.Redis.TTL, 30*24*time.Hour)
		return infraredis.NewSessionStore(client, ttl), "redis", func() { _ = client.Close() }, nil

	case "postgres":
		if cfg.Postgres.URL == "" {
			return nil, "", noop, fmt.Errorf("postgres url not configured")
		}
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, "", noop, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, "", noop, err
		}
		return infrapostgres.NewSessionStore(pool), "postgres", pool.Close, nil

	default:
		return nil, "", noop, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}
