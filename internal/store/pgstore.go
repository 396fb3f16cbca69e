package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/katakuxiko/ragstream/internal/model"
)

// PgStore хранит все namespace индекса в одной таблице pgvector,
// различая их по колонке namespace
type PgStore struct {
	db    *sql.DB
	table string
}

func NewPgStore(ctx context.Context, conn, table string, dims int) (*PgStore, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureSchema(ctx, db, table, dims); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PgStore{db: db, table: table}, nil
}

func (s *PgStore) Search(ctx context.Context, namespace string, vector []float32, k int) ([]model.Passage, error) {
	if k <= 0 {
		return nil, errInvalidTopK(k)
	}
	rows, err := s.db.QueryContext(ctx, searchQuery(s.table), namespace, floatsToPgVectorLiteral(vector), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.Passage
	for rows.Next() {
		var (
			p     model.Passage
			meta  []byte
			score float64
		)
		if err := rows.Scan(&p.ID, &p.Content, &meta, &score); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &p.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata of %s: %w", p.ID, err)
			}
		}
		p.Score = float32(score)
		res = append(res, p)
	}
	return res, rows.Err()
}

func (s *PgStore) Close() error {
	return s.db.Close()
}

func errInvalidTopK(k int) error {
	return fmt.Errorf("top_k must be positive, got %d", k)
}

func searchQuery(table string) string {
	return fmt.Sprintf(`
		SELECT chunk_id, text, metadata, 1 - (embedding <=> $2::vector) AS score
		FROM %s
		WHERE namespace = $1
		ORDER BY embedding <=> $2::vector
		LIMIT $3
	`, pq.QuoteIdentifier(table))
}

func floatsToPgVectorLiteral(v []float32) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, f := range v {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'f', 6, 32))
	}
	sb.WriteString("]")
	return sb.String()
}
