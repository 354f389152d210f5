package config

const (
	defaultGrammar = "blankline"
	defaultFormat  = "jsonl"

	defaultAPIListen = ":8090"

	defaultPublishBroker = "localhost:9092"
	defaultPublishTopic  = "pptree.samples"

	defaultWatchDebounceMS = 200
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Parser: ParserConfig{
			Grammar: defaultGrammar,
		},
		Output: OutputConfig{
			Format: defaultFormat,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Publish: PublishConfig{
			Brokers: []string{defaultPublishBroker},
			Topic:   defaultPublishTopic,
		},
		Watch: WatchConfig{
			DebounceMS: defaultWatchDebounceMS,
		},
	}
}
