// Package formatcmder provides the format command, which rewrites PPT
// documents in canonical form or converts them between grammars.
package formatcmder

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pptree/cmd/pptree/internal/cmdutil"
	"github.com/papercomputeco/pptree/pkg/ppt"
)

type formatCommander struct {
	to    string
	write bool
}

const formatLongDesc string = `Re-serialize PPT documents.

Parses each document with --grammar and writes it back with --to (defaults
to the input grammar). Use this to normalize spacing or to convert legacy
continuation documents to the blank-line grammar.

Examples:
  pptree format dialogue.ppt
  pptree format --grammar continuation --to blankline legacy.ppt
  pptree format --write *.ppt`

const formatShortDesc string = "Normalize or convert PPT documents"

func NewFormatCmd() *cobra.Command {
	cmder := &formatCommander{}

	cmd := &cobra.Command{
		Use:   "format [FILE...]",
		Short: formatShortDesc,
		Long:  formatLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, cmdutil.Args(args))
		},
	}

	cmd.Flags().StringVar(&cmder.to, "to", "", "Output grammar: blankline or continuation (default: input grammar)")
	cmd.Flags().BoolVarP(&cmder.write, "write", "w", false, "Write the result back to each file instead of stdout")

	return cmd
}

func (c *formatCommander) run(cmd *cobra.Command, paths []string) error {
	cfg, err := cmdutil.Settings(cmd)
	if err != nil {
		return err
	}

	from, err := cmdutil.Parser(cfg)
	if err != nil {
		return err
	}

	target := c.to
	if target == "" {
		target = cfg.Parser.Grammar
	}
	to, err := ppt.NewParser(ppt.Grammar(target))
	if err != nil {
		return err
	}

	log := cmdutil.Logger(cmd)

	for _, path := range paths {
		if c.write && path == cmdutil.StdinPath {
			return errors.New("--write requires file arguments")
		}

		pt, err := cmdutil.Load(path, cmd.InOrStdin(), from)
		if err != nil {
			return err
		}

		out := to.Dumps(pt)

		if !c.write {
			if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat document: %w", err)
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return fmt.Errorf("writing document: %w", err)
		}
		log.Debug("formatted document", "path", path, "turns", len(pt))
	}

	return nil
}
