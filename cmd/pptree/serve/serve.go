// Package servecmder provides the serve command, which runs the HTTP API and
// MCP tools.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pptree/api"
	"github.com/papercomputeco/pptree/cmd/pptree/internal/cmdutil"
	"github.com/papercomputeco/pptree/pkg/config"
	"github.com/papercomputeco/pptree/pkg/logger"
	"github.com/papercomputeco/pptree/pkg/ppt"
	"github.com/papercomputeco/pptree/pkg/worker"
)

type ServeCommander struct {
	listen  string
	noMCP   bool
	logJSON bool
	publish bool
	brokers []string
	topic   string
}

const serveLongDesc string = `Run the pptree API server.

Endpoints:
  GET  /ping              Health check
  POST /v1/turns          Parse a PPT document (?grammar=)
  POST /v1/conversation   Main-text conversation of a document
  POST /v1/preferences    Preference samples (?ids=true, ?turn=N)
  POST /v1/format         Re-serialize a document (?from=, ?to=)
       /mcp               MCP streamable HTTP endpoint

Request bodies are raw PPT text. With --publish, every preferences request
also emits a samples event to Kafka from a background worker pool.`

const serveShortDesc string = "Run the pptree API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddBoolFlag(cmd, config.Flags, config.FlagPublish, &cmder.publish)
	config.AddStringSliceFlag(cmd, config.Flags, config.FlagBrokers, &cmder.brokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagTopic, &cmder.topic)
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Do not mount the MCP endpoint")
	cmd.Flags().BoolVar(&cmder.logJSON, "log-json", false, "Log JSON lines to stderr for log collectors")

	return cmd
}

func (c *ServeCommander) run(cmd *cobra.Command) error {
	cfg, err := cmdutil.Settings(cmd,
		config.FlagListen,
		config.FlagPublish,
		config.FlagBrokers,
		config.FlagTopic,
	)
	if err != nil {
		return err
	}

	log := cmdutil.Logger(cmd)
	if c.logJSON {
		debug, _ := cmd.Flags().GetBool("debug")
		log = logger.New(
			logger.WithDebug(debug),
			logger.WithJSON(true),
			logger.WithSource(debug),
			logger.WithWriter(os.Stderr),
		)
	}

	apiConfig := api.Config{
		ListenAddr:     cfg.API.Listen,
		DefaultGrammar: ppt.Grammar(cfg.Parser.Grammar),
		DisableMCP:     c.noMCP,
	}

	if cfg.Publish.Enabled {
		publisher, err := cmdutil.Publisher(cfg)
		if err != nil {
			return err
		}
		defer publisher.Close()

		pool, err := worker.NewPool(&worker.Config{
			Publisher: publisher,
			Logger:    log,
		})
		if err != nil {
			return fmt.Errorf("creating worker pool: %w", err)
		}
		// Runs before publisher.Close so queued events drain first.
		defer pool.Close()

		apiConfig.Events = pool
		log.Info("publishing samples events",
			"brokers", cfg.Publish.Brokers,
			"topic", cfg.Publish.Topic,
		)
	}

	server, err := api.NewServer(apiConfig, log)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	case <-cmd.Context().Done():
		return server.Shutdown()
	}
}
