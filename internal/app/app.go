// Package app provides application initialization and dependency wiring.
//
// Setup builds every component explicitly, in dependency order: database
// (with migrations), Genkit, embedder, knowledge store, enterprise datasets,
// LLM client and the query orchestrator. There are no package-level
// singletons; everything is carried by the App container.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsmind/opsmind/internal/cmdb"
	"github.com/opsmind/opsmind/internal/config"
	"github.com/opsmind/opsmind/internal/ingest"
	"github.com/opsmind/opsmind/internal/itsm"
	"github.com/opsmind/opsmind/internal/knowledge"
	"github.com/opsmind/opsmind/internal/llm"
	"github.com/opsmind/opsmind/internal/workflow"
)

// App is the application container holding all long-lived components.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool

	Knowledge    *knowledge.Store
	Graph        *cmdb.Graph
	Registry     *itsm.Registry
	LLM          *llm.Client
	Orchestrator *workflow.Orchestrator
	Indexer      *ingest.Indexer

	otelCleanup func()
	dbCleanup   func()
}

// Close releases all resources in reverse initialization order.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	if a.dbCleanup != nil {
		a.dbCleanup()
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}
