package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/pthm/xloss"
	"github.com/pthm/xloss/internal/logger"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// validate checks the merged configuration before it is used.
func (c *Config) validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		errs = append(errs, fmt.Errorf("%w: addr %q: %v", ErrInvalidConfig, c.Addr, err))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel))
	}
	if _, err := xloss.ParseExposeMode(c.Expose); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	if _, err := xloss.ParseContentSource(c.Source); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	if c.IDRetries < 1 {
		errs = append(errs, fmt.Errorf("%w: id retries must be positive, got %d", ErrInvalidConfig, c.IDRetries))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
