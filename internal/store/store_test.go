package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestFloatsToPgVectorLiteral(t *testing.T) {
	assert.Equal(t, "[]", floatsToPgVectorLiteral(nil))
	assert.Equal(t, "[0.100000,-2.500000,3.000000]", floatsToPgVectorLiteral([]float32{0.1, -2.5, 3}))
}

func TestSchemaStatements_QuoteIndexName(t *testing.T) {
	stmts := schemaStatements("network-dsa", 1024)

	require.Len(t, stmts, 4)
	assert.Contains(t, stmts[1], `CREATE TABLE IF NOT EXISTS "network-dsa"`)
	assert.Contains(t, stmts[1], "embedding vector(1024)")
	assert.Contains(t, stmts[2], `"network-dsa_namespace_idx" ON "network-dsa" (namespace)`)
	assert.Contains(t, stmts[3], "vector_cosine_ops")
}

func TestSearchQuery_FiltersByNamespace(t *testing.T) {
	q := searchQuery(`odd"name`)

	assert.Contains(t, q, `FROM "odd""name"`)
	assert.Contains(t, q, "WHERE namespace = $1")
	assert.True(t, strings.Contains(q, "LIMIT $3"))
}

func TestPassageFromMatch(t *testing.T) {
	md, err := structpb.NewStruct(map[string]any{
		"text":   "Binary search halves the search space.",
		"source": "dsa.pdf",
		"page":   12,
	})
	require.NoError(t, err)

	p := passageFromMatch("vec-1", 0.87, md)

	assert.Equal(t, "vec-1", p.ID)
	assert.InDelta(t, 0.87, p.Score, 1e-6)
	assert.Equal(t, "Binary search halves the search space.", p.Content)
	assert.Equal(t, map[string]any{"source": "dsa.pdf", "page": float64(12)}, p.Metadata)
}

func TestPassageFromMatch_NoMetadata(t *testing.T) {
	p := passageFromMatch("vec-2", 0.5, nil)

	assert.Equal(t, "vec-2", p.ID)
	assert.Empty(t, p.Content)
	assert.Nil(t, p.Metadata)
}

func TestPineconeStore_UnknownNamespace(t *testing.T) {
	s := &PineconeStore{}

	_, err := s.Search(context.Background(), "missing", []float32{1}, 3)
	assert.ErrorContains(t, err, `namespace "missing" is not configured`)
}

func TestSearch_RejectsNonPositiveTopK(t *testing.T) {
	ctx := context.Background()
	for _, k := range []int{0, -3} {
		_, err := (&PineconeStore{}).Search(ctx, "networking-pdf", []float32{1}, k)
		assert.ErrorContains(t, err, "top_k must be positive", k)

		_, err = (&PgStore{}).Search(ctx, "networking-pdf", []float32{1}, k)
		assert.ErrorContains(t, err, "top_k must be positive", k)
	}
}
