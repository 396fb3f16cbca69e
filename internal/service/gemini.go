package service

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/katakuxiko/ragstream/internal/config"
	"github.com/katakuxiko/ragstream/internal/model"
)

// GeminiClient is the Gemini counterpart of LLMClient.
type GeminiClient struct {
	client      *genai.Client
	embedName   string
	embedDims   int32
	chatName    string
	temperature float32
}

func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.GeminiBaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.GeminiBaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		embedName:   cfg.EmbedModel,
		embedDims:   int32(cfg.EmbedDimensions),
		chatName:    cfg.ChatModel,
		temperature: cfg.Temperature,
	}, nil
}

func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedCfg *genai.EmbedContentConfig
	if g.embedDims > 0 {
		embedCfg = &genai.EmbedContentConfig{OutputDimensionality: genai.Ptr(g.embedDims)}
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.embedName, genai.Text(text), embedCfg)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("embedding response is empty")
	}
	return resp.Embeddings[0].Values, nil
}

func (g *GeminiClient) StreamGenerate(ctx context.Context, prompt string) <-chan model.AnswerChunk {
	out := make(chan model.AnswerChunk, 16)

	go func() {
		defer close(out)

		genCfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(g.temperature)}
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.chatName, genai.Text(prompt), genCfg) {
			if err != nil {
				send(ctx, out, model.AnswerChunk{Err: err})
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !send(ctx, out, model.AnswerChunk{Text: text}) {
				return
			}
		}
	}()

	return out
}
