// Package parsecmder provides the parse command, which prints the turns of a
// PPT document as JSON.
package parsecmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/pptree/cmd/pptree/internal/cmdutil"
	"github.com/papercomputeco/pptree/pkg/config"
)

type parseCommander struct {
	indent bool
}

const parseLongDesc string = `Parse a PPT document and print its turns as JSON.

Reads FILE, or standard input when FILE is "-" or omitted. Format errors
report the 1-based line of the offending block.

Examples:
  pptree parse dialogue.ppt
  cat dialogue.ppt | pptree parse --indent
  pptree parse --grammar continuation legacy.ppt`

const parseShortDesc string = "Print the turns of a PPT document"

func NewParseCmd() *cobra.Command {
	cmder := &parseCommander{}

	cmd := &cobra.Command{
		Use:   "parse [FILE]",
		Short: parseShortDesc,
		Long:  parseLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, cmdutil.Args(args)[0])
		},
	}

	config.AddBoolFlag(cmd, config.Flags, config.FlagIndent, &cmder.indent)

	return cmd
}

func (c *parseCommander) run(cmd *cobra.Command, path string) error {
	cfg, err := cmdutil.Settings(cmd, config.FlagIndent)
	if err != nil {
		return err
	}

	p, err := cmdutil.Parser(cfg)
	if err != nil {
		return err
	}

	pt, err := cmdutil.Load(path, cmd.InOrStdin(), p)
	if err != nil {
		return err
	}

	cmdutil.Logger(cmd).Debug("parsed document",
		"path", path,
		"turns", len(pt),
		"annotated", len(pt.Annotated()),
	)

	return cmdutil.WriteJSON(cmd.OutOrStdout(), pt, cfg.Output.Indent)
}
