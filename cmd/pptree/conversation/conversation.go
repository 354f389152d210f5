// Package conversationcmder provides the conversation command, which prints
// the main-text conversation of a PPT document.
package conversationcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/pptree/cmd/pptree/internal/cmdutil"
	"github.com/papercomputeco/pptree/pkg/config"
	"github.com/papercomputeco/pptree/pkg/conversation"
)

type conversationCommander struct {
	indent bool
}

const conversationLongDesc string = `Print the conversation of a PPT document as JSON messages.

Each turn becomes one {"role", "content"} message carrying its main text.
Chosen and rejected alternatives are left out.

Examples:
  pptree conversation dialogue.ppt
  pptree conversation --indent - < dialogue.ppt`

const conversationShortDesc string = "Print the main-text conversation of a PPT document"

func NewConversationCmd() *cobra.Command {
	cmder := &conversationCommander{}

	cmd := &cobra.Command{
		Use:   "conversation [FILE]",
		Short: conversationShortDesc,
		Long:  conversationLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, cmdutil.Args(args)[0])
		},
	}

	config.AddBoolFlag(cmd, config.Flags, config.FlagIndent, &cmder.indent)

	return cmd
}

func (c *conversationCommander) run(cmd *cobra.Command, path string) error {
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

	return cmdutil.WriteJSON(cmd.OutOrStdout(), conversation.Project(pt), cfg.Output.Indent)
}
