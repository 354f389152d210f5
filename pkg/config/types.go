package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/papercomputeco/pptree/pkg/dataset"
	"github.com/papercomputeco/pptree/pkg/ppt"
)

// Config represents the persistent pptree configuration stored as
// config.toml in the .pptree/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Parser  ParserConfig  `toml:"parser"`
	Output  OutputConfig  `toml:"output"`
	API     APIConfig     `toml:"api"`
	Publish PublishConfig `toml:"publish"`
	Watch   WatchConfig   `toml:"watch"`
}

// ParserConfig selects the PPT grammar.
type ParserConfig struct {
	Grammar string `toml:"grammar,omitempty"`
}

// OutputConfig controls how samples are written.
type OutputConfig struct {
	Format string `toml:"format,omitempty"`
	Indent bool   `toml:"indent,omitempty"`
	IDs    bool   `toml:"ids,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// PublishConfig holds the Kafka event stream settings used by
// "pptree preferences --publish".
type PublishConfig struct {
	Enabled bool     `toml:"enabled,omitempty"`
	Brokers []string `toml:"brokers,omitempty"`
	Topic   string   `toml:"topic,omitempty"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	DebounceMS uint `toml:"debounce_ms,omitempty"`
}

// Validate checks values that have a closed set of options.
func (c *Config) Validate() error {
	if _, err := ppt.ParseGrammar(c.Parser.Grammar); err != nil {
		return fmt.Errorf("invalid parser.grammar: %w", err)
	}
	if _, err := dataset.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("invalid output.format: %w", err)
	}
	return nil
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"parser.grammar": {
		get: func(c *Config) string { return c.Parser.Grammar },
		set: func(c *Config, v string) error {
			g, err := ppt.ParseGrammar(v)
			if err != nil {
				return fmt.Errorf("invalid value for parser.grammar: %w", err)
			}
			c.Parser.Grammar = string(g)
			return nil
		},
	},
	"output.format": {
		get: func(c *Config) string { return c.Output.Format },
		set: func(c *Config, v string) error {
			f, err := dataset.ParseFormat(v)
			if err != nil {
				return fmt.Errorf("invalid value for output.format: %w", err)
			}
			c.Output.Format = string(f)
			return nil
		},
	},
	"output.indent": boolKey(
		func(c *Config) *bool { return &c.Output.Indent }, "output.indent"),
	"output.ids": boolKey(
		func(c *Config) *bool { return &c.Output.IDs }, "output.ids"),
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"publish.enabled": boolKey(
		func(c *Config) *bool { return &c.Publish.Enabled }, "publish.enabled"),
	"publish.brokers": {
		get: func(c *Config) string { return strings.Join(c.Publish.Brokers, ",") },
		set: func(c *Config, v string) error {
			c.Publish.Brokers = splitList(v)
			return nil
		},
	},
	"publish.topic": {
		get: func(c *Config) string { return c.Publish.Topic },
		set: func(c *Config, v string) error { c.Publish.Topic = v; return nil },
	},
	"watch.debounce_ms": {
		get: func(c *Config) string {
			if c.Watch.DebounceMS == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Watch.DebounceMS), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for watch.debounce_ms: %w", err)
			}
			c.Watch.DebounceMS = uint(n)
			return nil
		},
	},
}

func boolKey(field func(c *Config) *bool, name string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = b
			return nil
		},
	}
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
