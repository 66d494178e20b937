package formkit

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/orchestrator"
	"github.com/goliatone/go-formkit/pkg/render"
)

// RenderOptions describes per-request presentation settings; alias exported
// via the root package for convenience.
type RenderOptions = render.RenderOptions

// Definition aliases form.Definition.
type Definition = form.Definition

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML builds a form from def and renders it with the html renderer.
// It is the simplest entry point for callers that just want markup.
func GenerateHTML(ctx context.Context, def Definition, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Definition: &def,
		Renderer:   "html",
	})
}

// GenerateDemoHTML renders the embedded profile form.
func GenerateDemoHTML(ctx context.Context, options ...orchestrator.Option) ([]byte, error) {
	return GenerateHTML(ctx, form.DemoDefinition(), options...)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}
