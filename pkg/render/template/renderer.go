package template

import (
	"io"
)

// TemplateRenderer is the engine contract renderers depend on. Names passed to
// RenderTemplate are resolved against the engine's template sources; Render
// also accepts inline template content.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
