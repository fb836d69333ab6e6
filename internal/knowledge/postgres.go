package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the querier needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresQuerier implements Querier against PostgreSQL with pgvector.
// Vector parameters require pgvector type registration on the connection,
// which the application wires via pgxvector.RegisterTypes in AfterConnect.
type PostgresQuerier struct {
	db DB
}

// NewPostgresQuerier wraps a pgx connection pool.
func NewPostgresQuerier(db DB) *PostgresQuerier {
	return &PostgresQuerier{db: db}
}

const upsertDocumentSQL = `
INSERT INTO documents (id, content, embedding, metadata, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    content = EXCLUDED.content,
    embedding = EXCLUDED.embedding,
    metadata = EXCLUDED.metadata`

func (q *PostgresQuerier) UpsertDocument(ctx context.Context, arg UpsertDocumentParams) error {
	_, err := q.db.Exec(ctx, upsertDocumentSQL,
		arg.ID, arg.Content, arg.Embedding, arg.Metadata, arg.CreatedAt)
	return err
}

// Cosine distance via <=>; similarity is 1 - distance. The filter parameter
// is always produced by json.Marshal upstream, never raw user input, and the
// query itself is fully parameterized.
const searchDocumentsSQL = `
SELECT id, content, metadata, created_at, 1 - (embedding <=> $1) AS similarity
FROM documents
WHERE $2::jsonb IS NULL OR metadata @> $2::jsonb
ORDER BY embedding <=> $1
LIMIT $3`

func (q *PostgresQuerier) SearchDocuments(ctx context.Context, arg SearchDocumentsParams) ([]DocumentRow, error) {
	rows, err := q.db.Query(ctx, searchDocumentsSQL,
		arg.QueryEmbedding, arg.FilterMetadata, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var row DocumentRow
		var similarity float64
		if err := rows.Scan(&row.ID, &row.Content, &row.Metadata, &row.CreatedAt, &similarity); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		row.Similarity = float32(similarity)
		out = append(out, row)
	}
	return out, rows.Err()
}

const countDocumentsSQL = `
SELECT COUNT(*) FROM documents
WHERE $1::jsonb IS NULL OR metadata @> $1::jsonb`

func (q *PostgresQuerier) CountDocuments(ctx context.Context, filterMetadata []byte) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countDocumentsSQL, filterMetadata).Scan(&count)
	return count, err
}

func (q *PostgresQuerier) DeleteDocument(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}
