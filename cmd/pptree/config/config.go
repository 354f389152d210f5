// Package configcmder provides the config command for managing persistent
// pptree configuration stored in the .pptree/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent pptree configuration.

Configuration is stored as config.toml in the .pptree/ directory and provides
default values for command flags. CLI flags and PPTREE_* environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  parser.grammar,
  output.format, output.indent, output.ids,
  api.listen,
  publish.enabled, publish.brokers, publish.topic,
  watch.debounce_ms

Use subcommands to get, set, or list configuration values:
  pptree config set <key> <value>    Set a configuration value
  pptree config get <key>            Get a configuration value
  pptree config list                 List all configuration values

Examples:
  pptree config set parser.grammar continuation
  pptree config set publish.brokers kafka-1:9092,kafka-2:9092
  pptree config get output.format
  pptree config list`

const configShortDesc string = "Manage persistent pptree configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func configDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("config-dir")
	return dir
}
