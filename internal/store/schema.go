package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// ensureSchema создаёт расширение, таблицу фрагментов и индексы по namespace и ivfflat
func ensureSchema(ctx context.Context, db *sql.DB, table string, dims int) error {
	for _, s := range schemaStatements(table, dims) {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}

	// ANALYZE для корректной работы ivfflat
	_, _ = db.ExecContext(ctx, "ANALYZE "+pq.QuoteIdentifier(table))
	return nil
}

func schemaStatements(table string, dims int) []string {
	t := pq.QuoteIdentifier(table)
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			namespace TEXT NOT NULL,
			chunk_id TEXT NOT NULL,
			text TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d)
		)`, t, dims),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (namespace)`,
			pq.QuoteIdentifier(table+"_namespace_idx"), t),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`,
			pq.QuoteIdentifier(table+"_embedding_ivfflat_idx"), t),
	}
}
