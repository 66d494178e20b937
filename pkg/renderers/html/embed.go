package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/controls/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in template bundle so callers can copy or
// shadow individual templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
