// Package showcmder provides the show command, which renders a PPT document
// as styled markdown in the terminal.
package showcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pptree/cmd/pptree/internal/cmdutil"
	"github.com/papercomputeco/pptree/pkg/cliui"
	"github.com/papercomputeco/pptree/pkg/logger"
	"github.com/papercomputeco/pptree/pkg/preference"
)

type showCommander struct {
	noColor bool
	width   int
}

const showLongDesc string = `Render a PPT document in the terminal.

Each turn is shown with its role and main text, followed by its chosen and
rejected alternatives. A summary line reports how many samples the document
yields.

Examples:
  pptree show dialogue.ppt
  pptree show --no-color dialogue.ppt | less`

const showShortDesc string = "Render a PPT document in the terminal"

func NewShowCmd() *cobra.Command {
	cmder := &showCommander{}

	cmd := &cobra.Command{
		Use:   "show [FILE]",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, cmdutil.Args(args)[0])
		},
	}

	cmd.Flags().BoolVar(&cmder.noColor, "no-color", false, "Disable colors and styling")
	cmd.Flags().IntVar(&cmder.width, "width", 80, "Wrap text at this many columns")

	return cmd
}

func (c *showCommander) run(cmd *cobra.Command, path string) error {
	cfg, err := cmdutil.Settings(cmd)
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

	color := !c.noColor && logger.IsTerminal(cmd.OutOrStdout())
	cliui.SetColor(color)

	rendered, err := cliui.RenderMarkdownWith(cliui.TreeMarkdown(pt), c.width, color)
	if err != nil {
		return fmt.Errorf("rendering document: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, rendered)
	fmt.Fprintf(out, "  %s\n", cliui.StepStyle.Render(fmt.Sprintf(
		"%d turns, %d annotated, %d samples",
		len(pt), len(pt.Annotated()), len(preference.GenerateAll(pt)),
	)))

	return nil
}
