package log

type Config struct {
	// Level is the minimum enabled logging level: debug, info, warn or error.
	Level string `conf:"level" yaml:"level" json:"level" env:"LEVEL"`

	// Format selects the encoder: "json" or "console".
	Format string `conf:"format" yaml:"format" json:"format" env:"FORMAT"`

	// Name is attached to every entry as the logger name.
	Name string `conf:"name" yaml:"name" json:"name" env:"NAME"`
}

func (c Config) withDefaults() Config {
	if c.Level == "" {
		c.Level = "info"
	}

	if c.Format == "" {
		c.Format = "json"
	}

	return c
}
