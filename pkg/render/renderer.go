package render

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Renderer turns a live form into a byte representation. Renderers only read
// control snapshots; they never mutate the form.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, f *form.Form, options RenderOptions) ([]byte, error)
}
