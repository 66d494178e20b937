package upload

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxFileSize is the size ceiling applied when none is configured.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Filter decides which files are accepted. Allowed entries are exact MIME
// types ("application/pdf"), MIME globs ("image/*"), or extensions (".pdf").
// An empty allow list accepts every type; MaxSize <= 0 disables the ceiling.
type Filter struct {
	Allowed []string
	MaxSize int64
}

// Check returns nil when the record passes both filters.
func (f Filter) Check(rec Record) error {
	if f.MaxSize > 0 && rec.Size > f.MaxSize {
		return ErrFileTooLarge
	}
	if !f.typeAllowed(rec) {
		return ErrTypeNotAllowed
	}
	return nil
}

func (f Filter) typeAllowed(rec Record) bool {
	if len(f.Allowed) == 0 {
		return true
	}
	mimeType := strings.ToLower(strings.TrimSpace(rec.Type))
	for _, raw := range f.Allowed {
		pattern := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case pattern == "":
			continue
		case strings.HasPrefix(pattern, "."):
			if rec.Extension != "" && pattern[1:] == rec.Extension {
				return true
			}
		case pattern == mimeType:
			return true
		default:
			if mimeType == "" {
				continue
			}
			if ok, err := doublestar.Match(pattern, mimeType); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Accept renders the allow list as an HTML accept attribute.
func (f Filter) Accept() string {
	parts := make([]string, 0, len(f.Allowed))
	for _, raw := range f.Allowed {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ",")
}
