package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/katakuxiko/ragstream/internal/model"
)

type fakeEmbedder struct {
	vec   []float32
	err   error
	calls atomic.Int32
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

type fakeSearcher struct {
	passages map[string][]model.Passage
	errs     map[string]error
	delays   map[string]time.Duration
}

func (f *fakeSearcher) Search(ctx context.Context, namespace string, _ []float32, _ int) ([]model.Passage, error) {
	if d := f.delays[namespace]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[namespace]; err != nil {
		return nil, err
	}
	src := f.passages[namespace]
	out := make([]model.Passage, len(src))
	copy(out, src)
	return out, nil
}

// fakeGenerator replays chunks, then err if set. With endless set it keeps
// producing until ctx is cancelled and closes stopped when it exits.
type fakeGenerator struct {
	chunks  []string
	err     error
	endless bool
	stopped chan struct{}

	mu      sync.Mutex
	prompts []string
}

func (f *fakeGenerator) StreamGenerate(ctx context.Context, prompt string) <-chan model.AnswerChunk {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	out := make(chan model.AnswerChunk)
	go func() {
		defer close(out)
		if f.stopped != nil {
			defer close(f.stopped)
		}
		for _, c := range f.chunks {
			if !send(ctx, out, model.AnswerChunk{Text: c}) {
				return
			}
		}
		for f.endless {
			if !send(ctx, out, model.AnswerChunk{Text: "."}) {
				return
			}
		}
		if f.err != nil {
			send(ctx, out, model.AnswerChunk{Err: f.err})
		}
	}()
	return out
}

func (f *fakeGenerator) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
