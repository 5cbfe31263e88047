package config

import (
	"flag"
	"fmt"
	"io"
)

// ParseFlags parses the configuration flags in args.
//
// Flags:
//
//	-a, -addr          listen address host:port
//	-log-level         debug, info, warn or error
//	-expose            literal or variable
//	-source            plaintext or ciphertext
//	-per-call-tags     one custom element type per injection
//	-id-retries        identifier draws per injection
//	-blank             serve an empty page instead of the demo
//	-shutdown-timeout  graceful shutdown bound (e.g. 5s)
func ParseFlags(args []string) (*Config, error) {
	cfg, _, err := parseFlags(args)
	return cfg, err
}

// parseFlags also returns the names of the flags present in args.
func parseFlags(args []string) (*Config, []string, error) {
	cfg := &Config{}
	fs := NewFlagSet("xloss", cfg)
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	var set []string
	fs.Visit(func(f *flag.Flag) {
		set = append(set, f.Name)
	})
	return cfg, set, nil
}

// flagFields copies the field behind each flag. Merging only fills zero
// fields, so explicitly set flags are copied again after the merge to let
// values such as -blank=false override the environment.
var flagFields = map[string]func(dst, src *Config){
	"a":                func(dst, src *Config) { dst.Addr = src.Addr },
	"addr":             func(dst, src *Config) { dst.Addr = src.Addr },
	"log-level":        func(dst, src *Config) { dst.LogLevel = src.LogLevel },
	"expose":           func(dst, src *Config) { dst.Expose = src.Expose },
	"source":           func(dst, src *Config) { dst.Source = src.Source },
	"per-call-tags":    func(dst, src *Config) { dst.PerCallTags = src.PerCallTags },
	"id-retries":       func(dst, src *Config) { dst.IDRetries = src.IDRetries },
	"blank":            func(dst, src *Config) { dst.Blank = src.Blank },
	"shutdown-timeout": func(dst, src *Config) { dst.ShutdownTimeout = src.ShutdownTimeout },
}

// NewFlagSet returns a flag set bound to cfg. Errors are returned, not
// printed or exited on.
func NewFlagSet(name string, cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", "", "Listen address host:port")
	fs.StringVar(&cfg.Addr, "addr", "", "Listen address host:port (alias)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.Expose, "expose", "", "Content rule mode: literal or variable")
	fs.StringVar(&cfg.Source, "source", "", "Rendered content: plaintext or ciphertext")
	fs.BoolVar(&cfg.PerCallTags, "per-call-tags", false, "Define a custom element type per injection")
	fs.IntVar(&cfg.IDRetries, "id-retries", 0, "Identifier draws per injection")
	fs.BoolVar(&cfg.Blank, "blank", false, "Serve an empty page instead of the demo")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout")
	return fs
}
