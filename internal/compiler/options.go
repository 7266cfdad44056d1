package compiler

import (
	"io"
	"log/slog"

	"golang.org/x/text/language"
)

// EmptyMode selects how is_empty and is_not_empty compile.
type EmptyMode int

const (
	// EmptyCompat compares against the supplied value, exactly like
	// equals / not_equal. An absent value compares against "".
	EmptyCompat EmptyMode = iota
	// EmptyStrict ignores the value and tests for NULL or "".
	EmptyStrict
)

// ParseEmptyMode maps "compat" and "strict" onto an EmptyMode.
func ParseEmptyMode(s string) (EmptyMode, bool) {
	switch s {
	case "", "compat":
		return EmptyCompat, true
	case "strict":
		return EmptyStrict, true
	default:
		return EmptyCompat, false
	}
}

func (m EmptyMode) String() string {
	if m == EmptyStrict {
		return "strict"
	}
	return "compat"
}

// DefaultLanguage is used when the user context carries no usable
// language code.
var DefaultLanguage = language.English

// Option configures a Compiler.
type Option func(*Compiler)

// WithEmptyMode selects the is_empty / is_not_empty semantics.
// Default: EmptyCompat.
func WithEmptyMode(m EmptyMode) Option {
	return func(c *Compiler) {
		c.emptyMode = m
	}
}

// WithZeroOffsetSkip controls whether offset 0 is omitted from the plan.
//
// Default: true. Request clients have always received no OFFSET clause for
// offset 0; turning this off emits OFFSET 0.
func WithZeroOffsetSkip(skip bool) Option {
	return func(c *Compiler) {
		c.skipZeroOffset = skip
	}
}

// WithDefaultLanguage sets the fallback translation language.
func WithDefaultLanguage(tag language.Tag) Option {
	return func(c *Compiler) {
		c.defaultLanguage = tag
	}
}

// WithLogger sets the logger dropped conditions are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
