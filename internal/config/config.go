// Package config handles striptool configuration loading and management.
package config

// Config holds all striptool settings.
type Config struct {
	Strip   StripConfig   `yaml:"strip"`
	Logging LoggingConfig `yaml:"logging"`
}

// StripConfig holds stripification settings.
type StripConfig struct {
	// CacheSize is the post-transform vertex cache size the optimizer
	// targets, e.g. 16 for GeForce1/2 class hardware, 24 for GeForce3.
	CacheSize int `yaml:"cache_size"`
	// MinStripLength is the strip size in faces below which a strip is
	// dissolved into the residual triangle list.
	MinStripLength int `yaml:"min_strip_length"`
	// StitchStrips joins all strips into one stream using degenerate
	// triangles.
	StitchStrips bool `yaml:"stitch_strips"`
	// ListsOnly emits a single cache-ordered triangle list and no strips.
	ListsOnly bool `yaml:"lists_only"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Strip: StripConfig{
			CacheSize:      16,
			MinStripLength: 0,
			StitchStrips:   true,
			ListsOnly:      false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
