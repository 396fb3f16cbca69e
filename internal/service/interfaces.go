package service

import (
	"context"

	"github.com/katakuxiko/ragstream/internal/model"
)

// Embedder turns text into a vector. Implementations must be safe for
// concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NamespaceSearcher returns up to k passages nearest to vector from one
// namespace of the index. Implementations must be safe for concurrent use.
type NamespaceSearcher interface {
	Search(ctx context.Context, namespace string, vector []float32, k int) ([]model.Passage, error)
}

// Generator streams a completion for prompt. The channel is closed when the
// completion ends, fails (last chunk carries Err) or ctx is cancelled.
type Generator interface {
	StreamGenerate(ctx context.Context, prompt string) <-chan model.AnswerChunk
}

// LLM is a provider that can both embed and generate.
type LLM interface {
	Embedder
	Generator
}

// send delivers v unless ctx is done first.
func send[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
