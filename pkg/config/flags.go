package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline, so the same logical flag
// cannot drift between "pptree preferences" and "pptree serve".
type Flag struct {
	// Name is the long flag name (e.g. "grammar").
	Name string

	// Shorthand is the one-letter short flag (e.g. "g"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "parser.grammar").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of registry keys to Flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagGrammar  = "grammar"
	FlagFormat   = "format"
	FlagIndent   = "indent"
	FlagIDs      = "ids"
	FlagListen   = "listen"
	FlagPublish  = "publish"
	FlagBrokers  = "brokers"
	FlagTopic    = "topic"
	FlagDebounce = "debounce"
)

// Flags is the registry shared by all pptree commands.
var Flags = FlagSet{
	FlagGrammar: {
		Name:        "grammar",
		Shorthand:   "g",
		ViperKey:    "parser.grammar",
		Description: "PPT grammar: blankline or continuation",
	},
	FlagFormat: {
		Name:        "format",
		Shorthand:   "f",
		ViperKey:    "output.format",
		Description: "Sample output format: json or jsonl",
	},
	FlagIndent: {
		Name:        "indent",
		ViperKey:    "output.indent",
		Description: "Pretty-print JSON output",
	},
	FlagIDs: {
		Name:        "ids",
		ViperKey:    "output.ids",
		Description: "Add a content-derived id to every sample",
	},
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address for the API server to listen on",
	},
	FlagPublish: {
		Name:        "publish",
		ViperKey:    "publish.enabled",
		Description: "Publish generated samples to Kafka",
	},
	FlagBrokers: {
		Name:        "brokers",
		ViperKey:    "publish.brokers",
		Description: "Kafka broker addresses",
	},
	FlagTopic: {
		Name:        "topic",
		ViperKey:    "publish.topic",
		Description: "Kafka topic for sample events",
	},
	FlagDebounce: {
		Name:        "debounce",
		ViperKey:    "watch.debounce_ms",
		Description: "Milliseconds to wait for writes to settle in watch mode",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetString(def.ViperKey)
	cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
}

// AddPersistentStringFlag registers a string flag on cmd that is inherited
// by all of its subcommands.
func AddPersistentStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetString(def.ViperKey)
	cmd.PersistentFlags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetBool(def.ViperKey)
	cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, key string, target *uint) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetUint(def.ViperKey)
	cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
}

// AddStringSliceFlag registers a string slice flag on cmd from the given FlagSet.
func AddStringSliceFlag(cmd *cobra.Command, fs FlagSet, key string, target *[]string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetStringSlice(def.ViperKey)
	cmd.Flags().StringSliceVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
// Persistent flags inherited from a parent are found once cobra has parsed
// the command line.
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaults returns a viper instance holding only NewDefaultConfig values.
func defaults() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}
