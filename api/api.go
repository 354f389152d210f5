package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/pptree/api/mcp"
	"github.com/papercomputeco/pptree/pkg/ppt"
)

// Server is the API server for the pptree system
type Server struct {
	config Config
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server and mounts the MCP tools at /mcp.
func NewServer(config Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if config.DefaultGrammar == "" {
		config.DefaultGrammar = ppt.GrammarBlankLine
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		logger: logger,
		app:    app,
	}

	app.Use(s.logRequest)

	app.Get("/ping", s.handlePing)

	v1 := app.Group("/v1")
	v1.Post("/turns", s.handleTurns)
	v1.Post("/conversation", s.handleConversation)
	v1.Post("/preferences", s.handlePreferences)
	v1.Post("/format", s.handleFormat)

	if !config.DisableMCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			DefaultGrammar: config.DefaultGrammar,
			Logger:         logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating MCP server: %w", err)
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("handled request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}
