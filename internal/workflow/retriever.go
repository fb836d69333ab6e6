package workflow

import (
	"context"
	"log/slog"

	"github.com/opsmind/opsmind/internal/knowledge"
)

// EvidenceStore is the retrieval capability the pipeline needs. Defined here
// by the consumer; *knowledge.Store satisfies it.
type EvidenceStore interface {
	Ready() bool
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
}

// Retriever wraps the evidence store. It never propagates store failures:
// not-ready and errors both degrade to an empty document list, distinguished
// by the returned Outcome.
type Retriever struct {
	store  EvidenceStore
	logger *slog.Logger
}

// NewRetriever creates a retrieval stage.
func NewRetriever(store EvidenceStore, logger *slog.Logger) *Retriever {
	return &Retriever{store: store, logger: logger}
}

// Retrieve returns up to k documents relevant to the query, without scores.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Document, Outcome) {
	docs, outcome := r.retrieve(ctx, query, k)
	for i := range docs {
		docs[i].Score = 0
		docs[i].Scored = false
	}
	return docs, outcome
}

// RetrieveWithScores is Retrieve with relevance scores populated.
func (r *Retriever) RetrieveWithScores(ctx context.Context, query string, k int) ([]Document, Outcome) {
	return r.retrieve(ctx, query, k)
}

func (r *Retriever) retrieve(ctx context.Context, query string, k int) ([]Document, Outcome) {
	if r.store == nil || !r.store.Ready() {
		r.logger.Warn("evidence store not ready, skipping retrieval")
		return nil, OutcomeNotReady
	}

	results, err := r.store.Search(ctx, query, knowledge.WithTopK(k))
	if err != nil {
		r.logger.Error("retrieval failed", "error", err)
		return nil, OutcomeFailed
	}
	if len(results) == 0 {
		r.logger.Info("retrieval returned no documents", "query_length", len(query))
		return nil, OutcomeEmpty
	}

	docs := make([]Document, 0, len(results))
	for _, res := range results {
		docs = append(docs, Document{
			Content:  res.Document.Content,
			Metadata: res.Document.Metadata,
			Score:    res.Similarity,
			Scored:   true,
		})
	}
	r.logger.Debug("retrieved documents", "count", len(docs))
	return docs, OutcomeOK
}
