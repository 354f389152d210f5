// Package preferencescmder provides the preferences command, which turns
// annotated PPT documents into (prompt, chosen, rejected) training samples.
package preferencescmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pptree/cmd/pptree/internal/cmdutil"
	"github.com/papercomputeco/pptree/pkg/cliui"
	"github.com/papercomputeco/pptree/pkg/config"
	"github.com/papercomputeco/pptree/pkg/dataset"
	"github.com/papercomputeco/pptree/pkg/eventstream"
	"github.com/papercomputeco/pptree/pkg/logger"
	"github.com/papercomputeco/pptree/pkg/ppt"
	"github.com/papercomputeco/pptree/pkg/preference"
	"github.com/papercomputeco/pptree/pkg/utils"
	"github.com/papercomputeco/pptree/pkg/watch"
)

type preferencesCommander struct {
	format   string
	indent   bool
	ids      bool
	output   string
	turn     int
	publish  bool
	brokers  []string
	topic    string
	watch    bool
	debounce uint

	cfg       *config.Config
	parser    ppt.Parser
	publisher eventstream.Publisher
	logger    *slog.Logger
}

const preferencesLongDesc string = `Generate preference samples from PPT documents.

Every turn with rejected alternatives expands into one sample per
(chosen, rejected) pair, where the chosen set is the turn's "+" alternatives
followed by its main text. The prompt is the conversation before that turn.

Samples from all FILE arguments are written together, as JSON Lines by
default or as a single JSON array with --format json.

With --publish, one event per document is sent to Kafka. With --watch, the
samples are regenerated whenever one of the files changes.

Examples:
  pptree preferences dialogue.ppt
  pptree preferences --format json --indent a.ppt b.ppt
  pptree preferences --ids --output samples.jsonl *.ppt
  pptree preferences --turn 3 dialogue.ppt
  pptree preferences --watch --output samples.jsonl dialogue.ppt
  pptree preferences --publish --brokers kafka:9092 dialogue.ppt`

// maxStepPathWidth keeps the spinner line on one terminal row.
const maxStepPathWidth = 48

const preferencesShortDesc string = "Generate preference samples from PPT documents"

func NewPreferencesCmd() *cobra.Command {
	cmder := &preferencesCommander{}

	cmd := &cobra.Command{
		Use:     "preferences [FILE...]",
		Aliases: []string{"prefs"},
		Short:   preferencesShortDesc,
		Long:    preferencesLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer cmder.publisher.Close()
			return cmder.run(cmd, cmdutil.Args(args))
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagFormat, &cmder.format)
	config.AddBoolFlag(cmd, config.Flags, config.FlagIndent, &cmder.indent)
	config.AddBoolFlag(cmd, config.Flags, config.FlagIDs, &cmder.ids)
	config.AddBoolFlag(cmd, config.Flags, config.FlagPublish, &cmder.publish)
	config.AddStringSliceFlag(cmd, config.Flags, config.FlagBrokers, &cmder.brokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagTopic, &cmder.topic)
	config.AddUintFlag(cmd, config.Flags, config.FlagDebounce, &cmder.debounce)
	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Write samples to this file instead of stdout")
	cmd.Flags().IntVarP(&cmder.turn, "turn", "t", -1, "Expand only this zero-based turn")
	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Regenerate samples when the files change")

	return cmd
}

func (c *preferencesCommander) setup(cmd *cobra.Command) error {
	var err error
	c.cfg, err = cmdutil.Settings(cmd,
		config.FlagFormat,
		config.FlagIndent,
		config.FlagIDs,
		config.FlagPublish,
		config.FlagBrokers,
		config.FlagTopic,
		config.FlagDebounce,
	)
	if err != nil {
		return err
	}

	c.parser, err = cmdutil.Parser(c.cfg)
	if err != nil {
		return err
	}

	c.logger = cmdutil.Logger(cmd)

	c.publisher, err = cmdutil.Publisher(c.cfg)
	if err != nil {
		return err
	}
	if !c.cfg.Publish.Enabled {
		return nil
	}

	c.logger.Debug("publishing enabled",
		"brokers", c.cfg.Publish.Brokers,
		"topic", c.cfg.Publish.Topic,
	)
	return nil
}

func (c *preferencesCommander) run(cmd *cobra.Command, paths []string) error {
	if !c.watch {
		return c.generate(cmd.Context(), cmd, paths)
	}

	for _, p := range paths {
		if p == cmdutil.StdinPath {
			return errors.New("--watch requires file arguments")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.generate(ctx, cmd, paths); err != nil {
		c.logger.Error("generating samples", "error", err)
	}

	w, err := watch.New(watch.Config{
		Paths:    paths,
		Debounce: time.Duration(c.cfg.Watch.DebounceMS) * time.Millisecond,
		Logger:   c.logger,
	}, func(ctx context.Context, path string) error {
		c.logger.Info("regenerating samples", "changed", path)
		return c.generate(ctx, cmd, paths)
	})
	if err != nil {
		return err
	}

	c.logger.Info("watching for changes", "files", len(paths))
	return w.Run(ctx)
}

// generate expands every document, publishes one event per document and
// writes the combined samples.
func (c *preferencesCommander) generate(ctx context.Context, cmd *cobra.Command, paths []string) error {
	var all []preference.Sample

	for _, path := range paths {
		pt, err := cmdutil.Load(path, cmd.InOrStdin(), c.parser)
		if err != nil {
			return err
		}

		samples, err := c.expand(pt)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		c.logger.Debug("expanded document",
			"path", path,
			"turns", len(pt),
			"samples", len(samples),
		)

		if err := c.publishSamples(ctx, path, pt, samples); err != nil {
			return err
		}

		all = append(all, samples...)
	}

	return c.write(cmd.OutOrStdout(), all)
}

func (c *preferencesCommander) expand(pt ppt.PT) ([]preference.Sample, error) {
	if c.turn < 0 {
		return preference.GenerateAll(pt), nil
	}
	return preference.ExpandTurn(pt, c.turn)
}

func (c *preferencesCommander) publishSamples(ctx context.Context, path string, pt ppt.PT, samples []preference.Sample) error {
	if !c.cfg.Publish.Enabled {
		return nil
	}

	event := eventstream.NewEvent(eventstream.EventSource{
		Path:    path,
		Grammar: c.cfg.Parser.Grammar,
	}, len(pt), dataset.NewRecords(samples, true))

	publish := func() error {
		return c.publisher.PublishSamples(ctx, event)
	}

	msg := fmt.Sprintf("Publishing %d samples from %s", len(samples), utils.Truncate(path, maxStepPathWidth))
	if logger.IsTerminal(os.Stderr) {
		return cliui.Step(os.Stderr, msg, publish)
	}

	c.logger.Info("publishing samples",
		"path", path,
		"samples", len(samples),
		"event_id", event.EventID,
	)
	return publish()
}

func (c *preferencesCommander) write(stdout io.Writer, samples []preference.Sample) (err error) {
	format, err := dataset.ParseFormat(c.cfg.Output.Format)
	if err != nil {
		return err
	}

	out := stdout
	if c.output != "" {
		f, createErr := os.Create(c.output)
		if createErr != nil {
			return fmt.Errorf("creating output file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		out = f
	}

	w := dataset.NewWriter(out, dataset.Options{
		Format: format,
		Indent: c.cfg.Output.Indent,
		IDs:    c.cfg.Output.IDs,
	})
	if err := w.Write(samples); err != nil {
		return err
	}

	if c.output != "" {
		c.logger.Info("wrote samples", "count", len(samples), "output", c.output)
	}
	return nil
}
