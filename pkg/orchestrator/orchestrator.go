package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/html"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithDefinitionTransformer registers a Transformer that can mutate the
// definition after loading but before the form is built.
func WithDefinitionTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithFormOptions are applied to every form the orchestrator builds.
func WithFormOptions(options ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, options...)
	}
}

// WithThemeSelector passes a go-theme selector through so theme/variant
// choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// Orchestrator coordinates the full pipeline from form definition to rendered
// output. It applies sensible defaults (html renderer, embedded demo form)
// while remaining open to dependency injection for advanced callers.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	formOptions     []form.Option
	themeSelector   theme.ThemeSelector
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a form.
type Request struct {
	// Source and Path locate a YAML or JSON definition. Optional when
	// Definition is supplied; when both are empty the embedded demo form is
	// used.
	Source fs.FS
	Path   string

	// Definition allows callers to bypass the loader.
	Definition *form.Definition

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant are resolved through the theme selector, when
	// one is configured.
	ThemeName    string
	ThemeVariant string

	// Values prefill the form without marking it dirty.
	Values map[string]any

	// RenderOptions carries per-request instructions such as the action URL
	// or hidden fields.
	RenderOptions render.RenderOptions
}

// Generate executes the loader → form → renderer sequence and returns the
// rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	f, err := o.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Build resolves the definition, applies the transformer, and returns the
// prefilled form. Callers own the form and must Close it.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*form.Form, error) {
	def, err := o.resolveDefinition(req)
	if err != nil {
		return nil, err
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &def); err != nil {
			return nil, fmt.Errorf("orchestrator: transform definition: %w", err)
		}
	}

	f, err := form.New(def, o.formOptions...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build form: %w", err)
	}
	if len(req.Values) > 0 {
		if err := f.Patch(req.Values); err != nil {
			f.Close()
			return nil, fmt.Errorf("orchestrator: prefill: %w", err)
		}
	}
	return f, nil
}

func (o *Orchestrator) resolveDefinition(req Request) (form.Definition, error) {
	if req.Definition != nil {
		def := *req.Definition
		def.Fields = slices.Clone(def.Fields)
		return def, nil
	}
	if req.Source == nil && strings.TrimSpace(req.Path) == "" {
		return form.DemoDefinition(), nil
	}
	if req.Source == nil {
		return form.Definition{}, errors.New("orchestrator: source is required with a path")
	}
	def, err := form.LoadDefinition(req.Source, req.Path)
	if err != nil {
		return form.Definition{}, fmt.Errorf("orchestrator: load definition: %w", err)
	}
	return def, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	o.defaultsApplied = true
}
