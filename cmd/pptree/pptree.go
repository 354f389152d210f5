// Package pptreecmder
package pptreecmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/pptree/cmd/pptree/config"
	conversationcmder "github.com/papercomputeco/pptree/cmd/pptree/conversation"
	formatcmder "github.com/papercomputeco/pptree/cmd/pptree/format"
	mcpcmder "github.com/papercomputeco/pptree/cmd/pptree/mcp"
	parsecmder "github.com/papercomputeco/pptree/cmd/pptree/parse"
	preferencescmder "github.com/papercomputeco/pptree/cmd/pptree/preferences"
	servecmder "github.com/papercomputeco/pptree/cmd/pptree/serve"
	showcmder "github.com/papercomputeco/pptree/cmd/pptree/show"
	versioncmder "github.com/papercomputeco/pptree/cmd/version"
	"github.com/papercomputeco/pptree/pkg/config"
)

const pptreeLongDesc string = `pptree turns hand-written Plain-Preference-Tree (PPT) dialogues into
preference-optimization training samples.

A PPT document is a dialogue where any turn may carry "+ " chosen and "- "
rejected alternatives. Every annotated turn expands into one
(prompt, chosen, rejected) sample per pair.

Common commands:
  pptree parse dialogue.ppt          Print the parsed turns
  pptree preferences dialogue.ppt    Generate samples as JSON Lines
  pptree show dialogue.ppt           Render the document in the terminal
  pptree serve                       Run the HTTP API and MCP endpoint`

const pptreeShortDesc string = "pptree - preference samples from plain-text dialogues"

func NewPptreeCmd() *cobra.Command {
	var grammar string

	cmd := &cobra.Command{
		Use:          "pptree",
		Short:        pptreeShortDesc,
		Long:         pptreeLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .pptree/ config directory")
	config.AddPersistentStringFlag(cmd, config.Flags, config.FlagGrammar, &grammar)

	// Add subcommands
	cmd.AddCommand(parsecmder.NewParseCmd())
	cmd.AddCommand(conversationcmder.NewConversationCmd())
	cmd.AddCommand(preferencescmder.NewPreferencesCmd())
	cmd.AddCommand(formatcmder.NewFormatCmd())
	cmd.AddCommand(showcmder.NewShowCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(mcpcmder.NewMCPCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
