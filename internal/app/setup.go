package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/opsmind/opsmind/db"
	"github.com/opsmind/opsmind/internal/cmdb"
	"github.com/opsmind/opsmind/internal/config"
	"github.com/opsmind/opsmind/internal/ingest"
	"github.com/opsmind/opsmind/internal/itsm"
	"github.com/opsmind/opsmind/internal/knowledge"
	"github.com/opsmind/opsmind/internal/llm"
	"github.com/opsmind/opsmind/internal/observability"
	"github.com/opsmind/opsmind/internal/workflow"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	// Tracing must be set up before Genkit so the span processor is
	// registered on its TracerProvider.
	a.otelCleanup = provideTracing(ctx, cfg, logger)

	pool, dbCleanup, err := provideDBPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.dbCleanup = dbCleanup
	a.DBPool = pool

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	a.Embedder = embedder

	a.Knowledge = knowledge.New(
		knowledge.NewPostgresQuerier(pool),
		embedder,
		logger.With("component", "knowledge"),
	)

	a.Graph = cmdb.SampleGraph(logger.With("component", "cmdb"))
	a.Registry = itsm.SampleRegistry(logger.With("component", "itsm"))

	a.LLM = llm.New(g, cfg.FullModelName(),
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
		logger.With("component", "llm"),
	)

	a.Orchestrator = workflow.NewOrchestrator(
		a.Knowledge, a.LLM, a.Graph, a.Registry,
		logger.With("component", "workflow"),
	)
	if err := a.Orchestrator.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing orchestrator: %w", err)
	}

	a.Indexer = ingest.NewIndexer(
		a.Knowledge,
		ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		nil,
		logger.With("component", "ingest"),
	)

	return a, nil
}

// provideTracing hooks the OTLP exporter into Genkit's TracerProvider when
// tracing is enabled. Returns a cleanup that flushes pending spans.
func provideTracing(ctx context.Context, cfg *config.Config, logger *slog.Logger) func() {
	if !cfg.Tracing.Enabled {
		return func() {}
	}

	shutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Environment: cfg.Tracing.Environment,
		ServiceName: cfg.Tracing.ServiceName,
	}, logger)
	if err != nil {
		logger.Warn("setting up tracing, continuing without it", "error", err)
		return func() {}
	}

	//nolint:contextcheck // Independent context: shutdown runs during teardown when parent is canceled
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideDBPool runs migrations and creates a PostgreSQL connection pool.
// Every new connection registers the pgvector types so vector(768) columns
// scan into pgvector.Vector directly.
func provideDBPool(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func(), error) {
	if err := db.Migrate(cfg.PostgresURL(), logger); err != nil {
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if err := pgxvector.RegisterTypes(ctx, conn); err != nil {
			return fmt.Errorf("registering pgvector types: %w", err)
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, pool.Close, nil
}

// provideGenkit initializes Genkit with the Google AI plugin. The plugin
// reads GEMINI_API_KEY from the environment; config validation already
// checked its presence.
func provideGenkit(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit")
	}
	logger.Info("initialized genkit", "model", cfg.ModelName, "embedder", cfg.EmbedderModel)
	return g, nil
}
