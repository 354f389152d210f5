// Package api provides an HTTP API server for parsing PPT documents and
// generating preference samples.
package api

import (
	"github.com/papercomputeco/pptree/pkg/ppt"
	"github.com/papercomputeco/pptree/pkg/worker"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// DefaultGrammar applies when a request has no grammar query parameter.
	DefaultGrammar ppt.Grammar

	// DisableMCP skips mounting the MCP handler at /mcp.
	DisableMCP bool

	// Events, when set, receives a samples event for every successful
	// preferences request.
	Events *worker.Pool
}
