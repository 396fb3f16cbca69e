package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/katakuxiko/ragstream/internal/api"
	"github.com/katakuxiko/ragstream/internal/config"
	"github.com/katakuxiko/ragstream/internal/logging"
	"github.com/katakuxiko/ragstream/internal/service"
	"github.com/katakuxiko/ragstream/internal/store"
)

type searchStore interface {
	service.NamespaceSearcher
	io.Closer
}

func main() {
	_ = godotenv.Load()

	// config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// clients
	llm, err := newLLM(ctx, cfg)
	if err != nil {
		logger.Fatal("init llm provider", zap.String("provider", cfg.Provider), zap.Error(err))
	}

	st, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal("init vector store", zap.String("store", cfg.VectorStore), zap.Error(err))
	}
	defer st.Close()

	// services
	retriever := service.NewRetriever(llm, st, cfg.Namespaces, logger)
	rag := service.NewRAGService(retriever, llm, cfg.TopK, logger)

	// api
	app := api.NewApp(cfg, rag, logger)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("addr", cfg.ServerAddr),
		zap.String("index", cfg.IndexName),
		zap.Strings("namespaces", cfg.Namespaces),
		zap.String("vector_store", cfg.VectorStore),
		zap.String("provider", cfg.Provider),
		zap.String("chat_model", cfg.ChatModel))

	if err := app.Listen(cfg.ServerAddr); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

func newLLM(ctx context.Context, cfg *config.Config) (service.LLM, error) {
	if cfg.Provider == config.ProviderGemini {
		return service.NewGeminiClient(ctx, cfg)
	}
	return service.NewLLMClient(cfg), nil
}

func newStore(ctx context.Context, cfg *config.Config) (searchStore, error) {
	if cfg.VectorStore == config.StorePgVector {
		return store.NewPgStore(ctx, cfg.PgConn, cfg.IndexName, cfg.EmbedDimensions)
	}
	return store.NewPineconeStore(ctx, cfg.PineconeAPIKey, cfg.IndexName, cfg.Namespaces)
}
