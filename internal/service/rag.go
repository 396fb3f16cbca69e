package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/katakuxiko/ragstream/internal/util"
)

var ErrEmptyQuestion = errors.New("question cannot be empty")

type RAGService struct {
	retriever *Retriever
	gen       Generator
	topK      int
	log       *zap.Logger
}

func NewRAGService(retriever *Retriever, gen Generator, topK int, log *zap.Logger) *RAGService {
	return &RAGService{retriever: retriever, gen: gen, topK: topK, log: log}
}

// Stream validates question and starts the retrieve, prompt and generate
// pipeline. The returned channel yields answer text as the model produces
// it. A generation failure ends the stream with one "Error: ..." chunk.
// Cancelling ctx stops the pipeline.
func (s *RAGService) Stream(ctx context.Context, question string) (<-chan string, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)

		log := s.log.With(zap.String("question", util.TruncateRunes(question, 200)))
		log.Info("processing question")

		passages := s.retriever.Retrieve(ctx, question, s.topK)
		prompt := BuildPrompt(FormatContext(passages), question)
		log.Debug("prompt assembled", zap.Int("passages", len(passages)), zap.Int("prompt_len", len(prompt)))

		for chunk := range s.gen.StreamGenerate(ctx, prompt) {
			if chunk.Err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error("generation failed", zap.Error(chunk.Err))
				send(ctx, out, "Error: "+chunk.Err.Error())
				return
			}
			if !send(ctx, out, chunk.Text) {
				log.Info("stream cancelled")
				return
			}
		}
	}()

	return out, nil
}
