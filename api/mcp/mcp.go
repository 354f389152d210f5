// Package mcp provides an MCP (Model Context Protocol) server exposing PPT
// parsing and preference sample generation as tools.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/pptree/pkg/ppt"
	"github.com/papercomputeco/pptree/pkg/utils"
)

type Config struct {
	// DefaultGrammar is used when a tool call leaves grammar empty.
	DefaultGrammar ppt.Grammar

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the PPT tools.
func NewServer(c Config) (*Server, error) {
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if c.DefaultGrammar == "" {
		c.DefaultGrammar = ppt.GrammarBlankLine
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "pptree",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if !c.Noop {
		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        parseToolName,
			Description: parseDescription,
		}, s.handleParse)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        generateToolName,
			Description: generateDescription,
		}, s.handleGenerate)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying SDK server, e.g. for stdio transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}
