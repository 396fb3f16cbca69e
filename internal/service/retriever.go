package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katakuxiko/ragstream/internal/model"
)

// Retriever fans one query out over a fixed, ordered list of namespaces.
type Retriever struct {
	embedder   Embedder
	searcher   NamespaceSearcher
	namespaces []string
	log        *zap.Logger
}

func NewRetriever(embedder Embedder, searcher NamespaceSearcher, namespaces []string, log *zap.Logger) *Retriever {
	return &Retriever{
		embedder:   embedder,
		searcher:   searcher,
		namespaces: append([]string(nil), namespaces...),
		log:        log,
	}
}

// Retrieve returns up to k passages from every namespace, grouped in
// configured namespace order. It never fails: namespaces whose search
// errored contribute nothing, and a non-positive k yields no passages.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []model.Passage {
	return CollectPassages(r.SearchAll(ctx, query, k), r.log)
}

// SearchAll embeds query once and searches every namespace concurrently.
// results[i] always belongs to the i-th configured namespace.
func (r *Retriever) SearchAll(ctx context.Context, query string, k int) []model.NamespaceResult {
	results := make([]model.NamespaceResult, len(r.namespaces))
	failAll := func(err error) []model.NamespaceResult {
		for i, ns := range r.namespaces {
			results[i] = model.NamespaceResult{Namespace: ns, Err: err}
		}
		return results
	}

	if k <= 0 {
		return failAll(fmt.Errorf("top_k must be positive, got %d", k))
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return failAll(fmt.Errorf("embed query: %w", err))
	}

	var g errgroup.Group
	for i, ns := range r.namespaces {
		g.Go(func() error {
			passages, err := r.searcher.Search(ctx, ns, vec, k)
			if err != nil {
				results[i] = model.NamespaceResult{Namespace: ns, Err: err}
				return nil
			}
			if len(passages) > k {
				passages = passages[:k]
			}
			for j := range passages {
				passages[j].Namespace = ns
			}
			results[i] = model.NamespaceResult{Namespace: ns, Passages: passages}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// CollectPassages concatenates successful results in order and drops failed
// ones, logging each dropped namespace.
func CollectPassages(results []model.NamespaceResult, log *zap.Logger) []model.Passage {
	var out []model.Passage
	for _, res := range results {
		if res.Err != nil {
			log.Warn("namespace search failed, skipping",
				zap.String("namespace", res.Namespace),
				zap.Error(res.Err))
			continue
		}
		out = append(out, res.Passages...)
	}
	return out
}
