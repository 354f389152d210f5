// Package cmdutil holds the plumbing shared by pptree commands: settings
// resolution, document loading and JSON output.
package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pptree/pkg/config"
	"github.com/papercomputeco/pptree/pkg/eventstream"
	"github.com/papercomputeco/pptree/pkg/eventstream/kafka"
	"github.com/papercomputeco/pptree/pkg/eventstream/nop"
	"github.com/papercomputeco/pptree/pkg/logger"
	"github.com/papercomputeco/pptree/pkg/ppt"
)

// StdinPath names standard input as a document argument.
const StdinPath = "-"

// Settings resolves the effective config for cmd. The registry flags in keys
// override environment variables, which override config.toml.
func Settings(cmd *cobra.Command, keys ...string) (*config.Config, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, append([]string{config.FlagGrammar}, keys...))

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// Logger returns the command logger honoring the persistent --debug flag.
func Logger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	return logger.NewCLI(debug)
}

// Parser returns the parser for the configured grammar.
func Parser(cfg *config.Config) (ppt.Parser, error) {
	return ppt.NewParser(ppt.Grammar(cfg.Parser.Grammar))
}

// Publisher returns a Kafka publisher when publishing is enabled and a nop
// publisher otherwise.
func Publisher(cfg *config.Config) (eventstream.Publisher, error) {
	if !cfg.Publish.Enabled {
		return nop.NewPublisher(), nil
	}

	p, err := kafka.NewPublisher(kafka.Config{
		Brokers: cfg.Publish.Brokers,
		Topic:   cfg.Publish.Topic,
	})
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}
	return p, nil
}

// Args defaults an empty argument list to standard input.
func Args(args []string) []string {
	if len(args) == 0 {
		return []string{StdinPath}
	}
	return args
}

// Load reads and parses one document. StdinPath reads from stdin. Format
// errors are prefixed with the document name.
func Load(path string, stdin io.Reader, p ppt.Parser) (ppt.PT, error) {
	r := stdin
	name := "<stdin>"
	if path != StdinPath {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening document: %w", err)
		}
		defer f.Close()
		r = f
		name = path
	}

	pt, err := ppt.Load(r, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return pt, nil
}

// WriteJSON encodes v to w followed by a newline.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
