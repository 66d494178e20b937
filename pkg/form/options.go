package form

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-formkit/pkg/upload"
)

// Option configures a Form.
type Option func(*Form)

// WithLogger overrides the logger handed to the form and its controls.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithUploadReader sets the preview reader used by file fields.
func WithUploadReader(reader upload.Reader) Option {
	return func(f *Form) {
		if reader != nil {
			f.reader = reader
		}
	}
}

// WithRejectHandler receives files excluded by any file field.
func WithRejectHandler(fn func(field string, rejection upload.Rejection)) Option {
	return func(f *Form) {
		f.onReject = fn
	}
}

// WithChangeHook is called after the form has processed a control
// notification, with the field name that changed.
func WithChangeHook(fn func(field string)) Option {
	return func(f *Form) {
		f.onChange = fn
	}
}

// WithDefaultMaxFileSize applies to file fields that do not declare one.
func WithDefaultMaxFileSize(size int64) Option {
	return func(f *Form) {
		f.maxFileSize = size
	}
}

// WithDefaultAllowedTypes applies to file fields that do not declare any.
func WithDefaultAllowedTypes(types ...string) Option {
	return func(f *Form) {
		f.allowedTypes = append([]string(nil), types...)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
