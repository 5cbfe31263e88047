package xloss

import (
	"fmt"
	"strings"

	"github.com/pthm/xloss/lib/cipher"
	"github.com/rs/zerolog"
)

// ExposeMode selects how the content rule references the protected text.
type ExposeMode int

const (
	// ExposeLiteral writes the text into the rule: content: "text".
	ExposeLiteral ExposeMode = iota
	// ExposeVariable points the rule at the page variable: content: var(--id).
	ExposeVariable
)

func (m ExposeMode) String() string {
	switch m {
	case ExposeLiteral:
		return "literal"
	case ExposeVariable:
		return "variable"
	}
	return fmt.Sprintf("ExposeMode(%d)", int(m))
}

// ParseExposeMode parses "literal" or "variable".
func ParseExposeMode(s string) (ExposeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal":
		return ExposeLiteral, nil
	case "variable", "var":
		return ExposeVariable, nil
	}
	return 0, fmt.Errorf("xloss: unknown expose mode %q", s)
}

// ContentSource selects which form of the secured content is rendered.
type ContentSource int

const (
	// SourcePlaintext renders the round-trip validated text, so the page
	// shows the original content.
	SourcePlaintext ContentSource = iota
	// SourceCipherText renders the sealed cipher bundle instead.
	SourceCipherText
)

func (s ContentSource) String() string {
	switch s {
	case SourcePlaintext:
		return "plaintext"
	case SourceCipherText:
		return "ciphertext"
	}
	return fmt.Sprintf("ContentSource(%d)", int(s))
}

// ParseContentSource parses "plaintext" or "ciphertext".
func ParseContentSource(s string) (ContentSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plaintext", "plain":
		return SourcePlaintext, nil
	case "ciphertext", "cipher":
		return SourceCipherText, nil
	}
	return 0, fmt.Errorf("xloss: unknown content source %q", s)
}

// TagMode selects how protected elements are typed.
type TagMode int

const (
	// TagShared uses one element type, SharedTag, for every injection. Its
	// connected hook reads the identifier from the data-xloss-id attribute.
	TagShared TagMode = iota
	// TagPerCall defines a new custom element type named after each
	// identifier. Names are global, so a reused identifier fails with
	// ErrTagCollision.
	TagPerCall
)

type options struct {
	expose    ExposeMode
	source    ContentSource
	tags      TagMode
	idRetries int
	idSource  IntSource
	cipher    *cipher.Cipher
	logger    zerolog.Logger
}

func defaultOptions() options {
	return options{
		idRetries: 16,
		logger:    zerolog.Nop(),
	}
}

// Option configures a Page.
type Option func(*options)

// WithExposeMode sets how content rules reference the protected text.
func WithExposeMode(m ExposeMode) Option {
	return func(o *options) { o.expose = m }
}

// WithContentSource sets which form of the secured content is rendered.
func WithContentSource(s ContentSource) Option {
	return func(o *options) { o.source = s }
}

// WithTagMode sets how protected elements are typed.
func WithTagMode(m TagMode) Option {
	return func(o *options) { o.tags = m }
}

// WithIDRetries bounds how many identifiers are drawn per injection before
// giving up with ErrTagCollision. n < 1 is treated as 1.
func WithIDRetries(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.idRetries = n
	}
}

// WithIDSource sets the randomness behind identifier generation.
func WithIDSource(src IntSource) Option {
	return func(o *options) { o.idSource = src }
}

// WithCipher sets the cipher used to secure content.
func WithCipher(c *cipher.Cipher) Option {
	return func(o *options) { o.cipher = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}
