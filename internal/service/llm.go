package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"

	"github.com/katakuxiko/ragstream/internal/config"
	"github.com/katakuxiko/ragstream/internal/model"
)

// LLMClient talks to OpenAI or any OpenAI-compatible server for both
// embeddings and streamed chat completions.
type LLMClient struct {
	client      *openai.Client
	embedName   string
	embedDims   int
	chatName    string
	temperature float32
}

// NewLLMClient creates a client from config.
func NewLLMClient(cfg *config.Config) *LLMClient {
	oaiCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		oaiCfg.BaseURL = cfg.OpenAIBaseURL
	}

	return &LLMClient{
		client:      openai.NewClientWithConfig(oaiCfg),
		embedName:   cfg.EmbedModel,
		embedDims:   cfg.EmbedDimensions,
		chatName:    cfg.ChatModel,
		temperature: cfg.Temperature,
	}
}

// Embed returns the embedding of text.
func (l *LLMClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := l.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(l.embedName),
		Input:      []string{text},
		Dimensions: l.embedDims,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding response is empty")
	}
	return resp.Data[0].Embedding, nil
}

// StreamGenerate sends prompt as a single user message and relays the
// content deltas as they arrive.
func (l *LLMClient) StreamGenerate(ctx context.Context, prompt string) <-chan model.AnswerChunk {
	out := make(chan model.AnswerChunk, 16)

	go func() {
		defer close(out)

		stream, err := l.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model: l.chatName,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: l.temperature,
			Stream:      true,
		})
		if err != nil {
			send(ctx, out, model.AnswerChunk{Err: fmt.Errorf("start completion: %w", err)})
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				send(ctx, out, model.AnswerChunk{Err: err})
				return
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			if !send(ctx, out, model.AnswerChunk{Text: resp.Choices[0].Delta.Content}) {
				return
			}
		}
	}()

	return out
}
