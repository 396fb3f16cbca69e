package api

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katakuxiko/ragstream/internal/config"
	"github.com/katakuxiko/ragstream/internal/service"
)

// NewApp builds the fiber app with middleware and routes.
func NewApp(cfg *config.Config, rag *service.RAGService, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.ServiceName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(cfg.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	RegisterRoutes(app, NewHandler(rag, cfg, log))
	return app
}

func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/", h.Root)
	app.Get("/health", h.Health)
	app.Post("/ask", h.AskQuestion)
}

// allowOrigins collapses the list to "*" when it contains a wildcard.
func allowOrigins(origins []string) string {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return "*"
	}
	return strings.Join(origins, ",")
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("request",
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return err
	}
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			detail = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"detail": detail})
	}
}
