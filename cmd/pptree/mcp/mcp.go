// Package mcpcmder provides the mcp command, which serves the pptree MCP
// tools over stdio for local agent integrations.
package mcpcmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/pptree/api/mcp"
	"github.com/papercomputeco/pptree/cmd/pptree/internal/cmdutil"
	"github.com/papercomputeco/pptree/pkg/ppt"
)

const mcpLongDesc string = `Serve the pptree MCP tools over stdio.

Tools:
  parse_ppt              Parse a PPT document into turns
  generate_preferences   Generate preference samples from a PPT document

Logs go to stderr so stdout stays reserved for the protocol.`

const mcpShortDesc string = "Serve the pptree MCP tools over stdio"

func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: mcpShortDesc,
		Long:  mcpLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cmdutil.Settings(cmd)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(mcp.Config{
				DefaultGrammar: ppt.Grammar(cfg.Parser.Grammar),
				Logger:         cmdutil.Logger(cmd),
			})
			if err != nil {
				return fmt.Errorf("creating MCP server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.MCPServer().Run(ctx, &gomcp.StdioTransport{})
		},
	}

	return cmd
}
