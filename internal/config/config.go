// Package config loads the settings of the xloss server and CLI from
// command line flags and XLOSS_* environment variables.
package config

import (
	"time"

	"github.com/pthm/xloss"
	"github.com/pthm/xloss/internal/logger"
	"github.com/rs/zerolog"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "XLOSS_"

// Config is the merged configuration.
type Config struct {
	// Addr is the listen address of the HTTP server, host:port.
	// Env: XLOSS_ADDR
	Addr string `env:"ADDR"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	// Env: XLOSS_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Expose is "literal" or "variable", see xloss.ExposeMode.
	// Env: XLOSS_EXPOSE
	Expose string `env:"EXPOSE"`

	// Source is "plaintext" or "ciphertext", see xloss.ContentSource.
	// Env: XLOSS_SOURCE
	Source string `env:"SOURCE"`

	// PerCallTags defines a custom element type per injection instead of
	// using the shared x-loss type.
	// Env: XLOSS_PER_CALL_TAGS
	PerCallTags bool `env:"PER_CALL_TAGS"`

	// IDRetries bounds identifier draws per injection.
	// Env: XLOSS_ID_RETRIES
	IDRetries int `env:"ID_RETRIES"`

	// Blank serves an empty page instead of the demo page.
	// Env: XLOSS_BLANK
	Blank bool `env:"BLANK"`

	// ShutdownTimeout bounds graceful shutdown of the server.
	// Env: XLOSS_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Defaults returns the values used for anything no source sets.
func Defaults() *Config {
	return &Config{
		Addr:            ":8080",
		LogLevel:        "info",
		Expose:          xloss.ExposeLiteral.String(),
		Source:          xloss.SourcePlaintext.String(),
		IDRetries:       16,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load builds the configuration from args (without the program and
// subcommand names) and the environment. Flags present in args take
// precedence over environment variables, which take precedence over
// Defaults. An empty environment variable counts as unset.
func Load(args []string) (*Config, error) {
	return newConfigBuilder().
		withFlags(args).
		withEnv().
		withDefaults().
		build()
}

// Level returns the parsed log level.
func (c *Config) Level() zerolog.Level {
	lvl, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// PageOptions translates the page settings into xloss options.
func (c *Config) PageOptions(log zerolog.Logger) ([]xloss.Option, error) {
	expose, err := xloss.ParseExposeMode(c.Expose)
	if err != nil {
		return nil, err
	}
	source, err := xloss.ParseContentSource(c.Source)
	if err != nil {
		return nil, err
	}

	tags := xloss.TagShared
	if c.PerCallTags {
		tags = xloss.TagPerCall
	}

	return []xloss.Option{
		xloss.WithExposeMode(expose),
		xloss.WithContentSource(source),
		xloss.WithTagMode(tags),
		xloss.WithIDRetries(c.IDRetries),
		xloss.WithLogger(log),
	}, nil
}
