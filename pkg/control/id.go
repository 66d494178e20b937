package control

import (
	"strings"

	"github.com/google/uuid"
)

const fallbackIDPrefix = "input-"

// NewID returns a page-unique identifier for label/input association when the
// host does not supply one.
func NewID() string {
	return NewPrefixedID(fallbackIDPrefix)
}

// NewPrefixedID is NewID with a caller supplied prefix.
func NewPrefixedID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + suffix[:12]
}
