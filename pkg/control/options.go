package control

import (
	"io"
	"log/slog"
	"strings"
)

// Option configures a Control at construction.
type Option func(*Control)

// Attributes are the declarative, host supplied properties of a control.
type Attributes struct {
	ID          string
	Name        string
	Label       string
	Placeholder string
	Hint        string
	Options     Catalog
}

// WithID overrides the generated identifier.
func WithID(id string) Option {
	return func(c *Control) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			c.attrs.ID = trimmed
		}
	}
}

// WithName sets the field name submitted with the control's value.
func WithName(name string) Option {
	return func(c *Control) {
		c.attrs.Name = strings.TrimSpace(name)
	}
}

func WithLabel(label string) Option {
	return func(c *Control) {
		c.attrs.Label = label
	}
}

func WithPlaceholder(placeholder string) Option {
	return func(c *Control) {
		c.attrs.Placeholder = placeholder
	}
}

func WithHint(hint string) Option {
	return func(c *Control) {
		c.attrs.Hint = hint
	}
}

// WithOptions supplies the catalog used by select and radio controls.
func WithOptions(options Catalog) Option {
	return func(c *Control) {
		c.attrs.Options = append(Catalog(nil), options...)
	}
}

// WithError seeds the external error text.
func WithError(message string) Option {
	return func(c *Control) {
		c.err = message
	}
}

// WithValue seeds the initial value without notifying the host.
func WithValue(value Value) Option {
	return func(c *Control) {
		c.value = value
	}
}

// WithHost binds the control to its host form.
func WithHost(host Host[Value]) Option {
	return func(c *Control) {
		if host != nil {
			c.host = host
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Control) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
