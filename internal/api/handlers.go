package api

import (
	"bufio"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/katakuxiko/ragstream/internal/config"
	"github.com/katakuxiko/ragstream/internal/model"
	"github.com/katakuxiko/ragstream/internal/service"
)

// Handler holds handler dependencies.
type Handler struct {
	rag *service.RAGService
	cfg *config.Config
	log *zap.Logger
}

func NewHandler(rag *service.RAGService, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{rag: rag, cfg: cfg, log: log}
}

// Root describes the service.
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":    h.cfg.ServiceName,
		"version":    h.cfg.Version,
		"namespaces": h.cfg.Namespaces,
		"endpoints": fiber.Map{
			"POST /ask":   "Ask a question and get streaming response",
			"GET /health": "Health check endpoint",
		},
	})
}

// Health reports configuration only; the index is not contacted.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "healthy",
		"namespaces": h.cfg.Namespaces,
		"index":      h.cfg.IndexName,
	})
}

// AskQuestion streams the answer as plain text. Once the first byte is out
// the status is fixed at 200, so failures arrive as an "Error: ..." chunk.
func (h *Handler) AskQuestion(c *fiber.Ctx) error {
	var req model.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	// The stream writer outlives this handler, so the pipeline cannot hang
	// off the fiber context. It is cancelled when the writer returns.
	ctx, cancel := context.WithCancel(context.Background())
	answer, err := h.rag.Stream(ctx, req.Question)
	if err != nil {
		cancel()
		if errors.Is(err, service.ErrEmptyQuestion) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Question cannot be empty"})
		}
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Accel-Buffering", "no")

	log := h.log.With(zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)))
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		for text := range answer {
			if _, err := w.WriteString(text); err != nil {
				log.Info("client went away", zap.Error(err))
				return
			}
			if err := w.Flush(); err != nil {
				log.Info("client went away", zap.Error(err))
				return
			}
		}
	})
	return nil
}
