package upload

import (
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formkit/pkg/control"
)

// Option configures the upload control.
type Option func(*Control)

// WithAllowedTypes restricts accepted files by MIME type, MIME glob, or
// extension.
func WithAllowedTypes(types ...string) Option {
	return func(c *Control) {
		c.filter.Allowed = append([]string(nil), types...)
	}
}

// WithMaxFileSize sets the byte ceiling; values <= 0 disable it.
func WithMaxFileSize(size int64) Option {
	return func(c *Control) {
		c.filter.MaxSize = size
	}
}

// WithReader overrides the preview reader.
func WithReader(reader Reader) Option {
	return func(c *Control) {
		if reader != nil {
			c.reader = reader
		}
	}
}

// WithHost binds the control to its host form.
func WithHost(host control.Host[[]Record]) Option {
	return func(c *Control) {
		if host != nil {
			c.host = host
		}
	}
}

// WithRejectHandler receives files excluded by the filters or whose preview
// could not be read. Rejected files never reach the value.
func WithRejectHandler(fn func(Rejection)) Option {
	return func(c *Control) {
		c.onReject = fn
	}
}

// WithLabel sets the drop zone label.
func WithLabel(label string) Option {
	return func(c *Control) {
		c.attrs.Label = label
	}
}

// WithID overrides the generated identifier.
func WithID(id string) Option {
	return func(c *Control) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			c.attrs.ID = trimmed
		}
	}
}

// WithName sets the submitted field name.
func WithName(name string) Option {
	return func(c *Control) {
		c.attrs.Name = strings.TrimSpace(name)
	}
}

// WithHint sets the hint text rendered under the drop zone.
func WithHint(hint string) Option {
	return func(c *Control) {
		c.attrs.Hint = hint
	}
}

// WithUploadURL records a target address. Files are never sent to it.
func WithUploadURL(url string) Option {
	return func(c *Control) {
		c.attrs.UploadURL = strings.TrimSpace(url)
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
