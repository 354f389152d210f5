package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/pptree/pkg/dotdir"
)

// EnvPrefix prefixes environment variable overrides, e.g. PPTREE_PARSER_GRAMMAR.
const EnvPrefix = "PPTREE"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the PPTREE_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (PPTREE_PARSER_GRAMMAR, PPTREE_API_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	dir, err := dotdir.NewManager().Resolve(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if dotdir.Exists(dir) {
		v.AddConfigPath(dir)

		if err := v.ReadInConfig(); err != nil {
			// Config file not found errors are fine, defaults will apply.
			if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper materializes a validated Config from the viper precedence chain.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Version: v.GetInt("version"),
		Parser: ParserConfig{
			Grammar: v.GetString("parser.grammar"),
		},
		Output: OutputConfig{
			Format: v.GetString("output.format"),
			Indent: v.GetBool("output.indent"),
			IDs:    v.GetBool("output.ids"),
		},
		API: APIConfig{
			Listen: v.GetString("api.listen"),
		},
		Publish: PublishConfig{
			Enabled: v.GetBool("publish.enabled"),
			// Environment variables arrive as a single comma separated value.
			Brokers: splitList(strings.Join(v.GetStringSlice("publish.brokers"), ",")),
			Topic:   v.GetString("publish.topic"),
		},
		Watch: WatchConfig{
			DebounceMS: v.GetUint("watch.debounce_ms"),
		},
	}

	if cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("parser.grammar", d.Parser.Grammar)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.indent", d.Output.Indent)
	v.SetDefault("output.ids", d.Output.IDs)

	v.SetDefault("api.listen", d.API.Listen)

	v.SetDefault("publish.enabled", d.Publish.Enabled)
	v.SetDefault("publish.brokers", d.Publish.Brokers)
	v.SetDefault("publish.topic", d.Publish.Topic)

	v.SetDefault("watch.debounce_ms", d.Watch.DebounceMS)
}
