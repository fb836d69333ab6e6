// Package knowledge provides the vector-backed evidence store for question
// answering.
//
// Documents are embedded with a Genkit ai.Embedder and persisted in
// PostgreSQL with the pgvector extension. Search embeds the query and ranks
// stored documents by cosine similarity, optionally restricted by metadata
// filters.
//
// The Store depends on the Querier interface for database access, so tests
// can substitute an in-memory implementation while production wires the
// pgx-backed one from NewPostgresQuerier.
//
// Schema (see db/migrations):
//
//	documents:
//	    id          TEXT PRIMARY KEY
//	    content     TEXT NOT NULL
//	    embedding   vector(768)
//	    metadata    JSONB
//	    created_at  TIMESTAMPTZ
package knowledge
